// Package browser drives a headless Chrome through chromedp. A Session is
// scoped to one handler invocation and owns its own browser process; page
// loads across all sessions share one navigation rate limiter.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/albapepper/tennisgraph/internal/config"
)

// ErrLoadTimeout is returned when the wait-for-load condition of a Visit is
// not met within the configured bound.
var ErrLoadTimeout = errors.New("page load timed out")

const (
	cookieBanner = "#onetrust-reject-all-handler"
	cookieWait   = 3 * time.Second
)

// Visit describes one navigation.
type Visit struct {
	URL            string
	WaitFor        string        // CSS selector that must be present before capture
	Settle         time.Duration // fixed delay for client-rendered content
	DismissCookies bool
}

// Session is one browser tab.
type Session interface {
	Visit(ctx context.Context, v Visit) error
	// HTML returns the outer HTML of the first element matching selector.
	HTML(ctx context.Context, selector string) (string, error)
	// Click clicks the first match; selectors starting with "//" are XPath.
	Click(ctx context.Context, selector string) error
	Title(ctx context.Context) (string, error)
	Close() error
}

// Opener starts sessions.
type Opener interface {
	NewSession(ctx context.Context) (Session, error)
}

// Launcher starts chromedp sessions.
type Launcher struct {
	opts        []chromedp.ExecAllocatorOption
	waitTimeout time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewLauncher creates a Launcher from configuration.
func NewLauncher(cfg *config.Config, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.BrowserHeadless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1440, 1000),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	ppm := cfg.PagesPerMinute
	if ppm < 1 {
		ppm = 1
	}
	return &Launcher{
		opts:        opts,
		waitTimeout: cfg.WaitTimeout,
		limiter:     rate.NewLimiter(rate.Limit(float64(ppm)/60.0), 1),
		logger:      logger,
	}
}

// NewSession launches a browser and returns its first tab.
func (l *Launcher) NewSession(ctx context.Context) (Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), l.opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Start the browser on the tab context itself; a derived timeout context
	// would otherwise own the process and kill it when cancelled.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &session{
		ctx:         tabCtx,
		cancel:      func() { cancelTab(); cancelAlloc() },
		run:         chromedp.Run,
		waitTimeout: l.waitTimeout,
		limiter:     l.limiter,
		logger:      l.logger,
	}, nil
}

type session struct {
	ctx         context.Context // tab context; owns the browser process
	cancel      context.CancelFunc
	run         func(ctx context.Context, actions ...chromedp.Action) error
	waitTimeout time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// do runs actions on the tab under a context bounded by timeout and
// cancelled along with ctx. A timeout is reported as ErrLoadTimeout; a
// cancelled caller gets ctx's error.
func (s *session) do(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := s.run(cctx, actions...)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(cctx.Err(), context.DeadlineExceeded):
		return ErrLoadTimeout
	}
	return err
}

func (s *session) Visit(ctx context.Context, v Visit) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("navigation rate limit wait: %w", err)
	}

	if err := s.do(ctx, s.waitTimeout, chromedp.Navigate(v.URL)); err != nil {
		return fmt.Errorf("navigate %s: %w", v.URL, err)
	}

	if v.DismissCookies {
		s.dismissCookies(ctx)
	}

	if v.Settle > 0 {
		select {
		case <-time.After(v.Settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if v.WaitFor != "" {
		if err := s.do(ctx, s.waitTimeout, chromedp.WaitReady(v.WaitFor, chromedp.ByQuery)); err != nil {
			return fmt.Errorf("%s waiting for %q: %w", v.URL, v.WaitFor, err)
		}
	}
	return nil
}

func (s *session) dismissCookies(ctx context.Context) {
	err := s.do(ctx, cookieWait, chromedp.Click(cookieBanner, chromedp.ByQuery, chromedp.NodeVisible))
	if err != nil {
		s.logger.Debug("No cookie banner dismissed", "error", err)
	}
}

func (s *session) HTML(ctx context.Context, selector string) (string, error) {
	var html string
	if err := s.do(ctx, s.waitTimeout, chromedp.OuterHTML(selector, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capture %q: %w", selector, err)
	}
	return html, nil
}

func (s *session) Click(ctx context.Context, selector string) error {
	by := chromedp.ByQuery
	if strings.HasPrefix(selector, "//") {
		by = chromedp.BySearch
	}
	if err := s.do(ctx, s.waitTimeout, chromedp.Click(selector, by, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

func (s *session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.do(ctx, s.waitTimeout, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("read title: %w", err)
	}
	return title, nil
}

func (s *session) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}
