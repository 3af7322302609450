package browser

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// hangingSession never finishes an action until its context ends, like a
// page whose load event never fires.
func hangingSession(wait time.Duration) *session {
	return &session{
		ctx: context.Background(),
		run: func(ctx context.Context, _ ...chromedp.Action) error {
			<-ctx.Done()
			return ctx.Err()
		},
		waitTimeout: wait,
		limiter:     rate.NewLimiter(rate.Inf, 1),
		logger:      slog.Default(),
	}
}

func TestVisit_NavigateTimesOut(t *testing.T) {
	s := hangingSession(20 * time.Millisecond)

	err := s.Visit(context.Background(), Visit{URL: "https://www.atptour.com/en/players/x/a0e2/overview"})
	require.ErrorIs(t, err, ErrLoadTimeout)
	assert.Contains(t, err.Error(), "navigate")
}

func TestSession_CallerCancellationStopsWaiting(t *testing.T) {
	s := hangingSession(time.Hour)

	tests := []struct {
		name string
		call func(ctx context.Context) error
	}{
		{"visit", func(ctx context.Context) error { return s.Visit(ctx, Visit{URL: "https://www.wtatennis.com"}) }},
		{"html", func(ctx context.Context) error { _, err := s.HTML(ctx, "#match-stats"); return err }},
		{"click", func(ctx context.Context) error { return s.Click(ctx, "//button[text()='Stats']") }},
		{"title", func(ctx context.Context) error { _, err := s.Title(ctx); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			time.AfterFunc(10*time.Millisecond, cancel)

			done := make(chan error, 1)
			go func() { done <- tt.call(ctx) }()

			select {
			case err := <-done:
				require.ErrorIs(t, err, context.Canceled)
				assert.NotErrorIs(t, err, ErrLoadTimeout)
			case <-time.After(2 * time.Second):
				t.Fatal("call did not return after the caller was cancelled")
			}
		})
	}
}

func TestHTML_TimeoutIsLoadTimeout(t *testing.T) {
	s := hangingSession(20 * time.Millisecond)

	_, err := s.HTML(context.Background(), ".stats-item")
	require.ErrorIs(t, err, ErrLoadTimeout)
}

func TestSession_RunErrorPassesThrough(t *testing.T) {
	boom := errors.New("websocket closed")
	s := hangingSession(time.Second)
	s.run = func(context.Context, ...chromedp.Action) error { return boom }

	err := s.Click(context.Background(), "#tab")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrLoadTimeout)
}
