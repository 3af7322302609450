// Command ingest runs the tennis scrape pipelines from the command line.
//
// Usage:
//
//	tennis-ingest atp player a0e2
//	tennis-ingest atp draw --tid 580 --year 2025 --type Singles --draw Main --sets BestOf5
//	tennis-ingest atp results --tid 580 --year 2025 --type Singles
//	tennis-ingest atp stats --eid 5802025 --type Singles --link /en/scores/match-stats/archive/2025/580/ms001
//	tennis-ingest wta stats --wid 2082 --year 2025 --eid 11222025 --type Singles --draw Main --from 1 --to 32
//	tennis-ingest import matches wimbledon.json --tid 540 --year 2025 --tour WTA --type Doubles --draw Main
//	tennis-ingest plan weekly.yaml
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/albapepper/tennisgraph/internal/browser"
	"github.com/albapepper/tennisgraph/internal/config"
	"github.com/albapepper/tennisgraph/internal/db"
	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/importer"
	"github.com/albapepper/tennisgraph/internal/ingest"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "tennis-ingest",
		Short:         "Scrape ATP and WTA pages into the tennis graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "Print the run outcome as JSON")

	root.AddCommand(atpCmd())
	root.AddCommand(wtaCmd())
	root.AddCommand(importCmd())
	root.AddCommand(planCmd())
	root.AddCommand(runsCmd())

	if err := root.Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// deps is what every command needs once configuration is loaded.
type deps struct {
	cfg      *config.Config
	store    *graph.Store
	recorder ingest.Recorder
}

func (d *deps) service() *ingest.Service {
	opts := []ingest.Option{ingest.WithSettle(d.cfg.SettleDelay)}
	if d.recorder != nil {
		opts = append(opts, ingest.WithRecorder(d.recorder))
	}
	return ingest.NewService(d.store, browser.NewLauncher(d.cfg, logger), logger, opts...)
}

// runIngest loads configuration, opens the graph and the optional run log,
// runs fn and reports its outcome.
func runIngest(cmd *cobra.Command, fn func(ctx context.Context, d *deps) (*ingest.Outcome, error)) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := graph.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to neo4j: %w", err)
	}
	defer store.Close(context.Background())

	d := &deps{cfg: cfg, store: store}
	if cfg.RunLogDatabaseURL != "" {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Warn("Run log disabled", "error", err)
		} else {
			defer pool.Close()
			d.recorder = pool
		}
	}

	o, runErr := fn(ctx, d)
	if o != nil {
		report(cmd, o)
	}
	return runErr
}

func report(cmd *cobra.Command, o *ingest.Outcome) {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		_ = enc.Encode(o)
		return
	}
	logger.Info("Run finished", "source", o.Source, "run_id", o.RunID, "summary", o.Summary())
	for _, link := range o.Links {
		fmt.Fprintln(cmd.OutOrStdout(), link)
	}
}

// editionFlags binds the flags shared by every edition-scoped command.
func editionFlags(cmd *cobra.Command, e *ingest.Edition) {
	cmd.Flags().StringVar(&e.TID, "tid", "", "Tournament id of the stored event")
	cmd.Flags().StringVar(&e.Year, "year", "", "Year of the stored event")
	cmd.Flags().StringVar(&e.SiteTID, "tid2", "", "Tournament id used in the site URL, when it differs")
	cmd.Flags().StringVar(&e.SiteYear, "year2", "", "Year used in the site URL, when it differs")
}

func disciplineFlag(cmd *cobra.Command, d *tennis.Discipline) {
	cmd.Flags().StringVar((*string)(d), "type", string(tennis.Singles), "Match type (Singles or Doubles)")
}

func drawFlag(cmd *cobra.Command, d *tennis.Draw) {
	cmd.Flags().StringVar((*string)(d), "draw", string(tennis.Main), "Draw (Main or Qualifying)")
}

// --------------------------------------------------------------------------
// atp commands
// --------------------------------------------------------------------------

func atpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atp",
		Short: "Scrape atptour.com",
	}
	cmd.AddCommand(atpPlayerCmd())
	cmd.AddCommand(atpDrawCmd())
	cmd.AddCommand(atpResultsCmd())
	cmd.AddCommand(atpStatsCmd())
	cmd.AddCommand(atpActivityCmd())
	return cmd
}

func atpPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <id>...",
		Short: "Upsert ATP player profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				svc := d.service()
				total := ingest.NewOutcome(ingest.SourceATPPlayer)
				for _, id := range args {
					o, err := svc.ATPPlayer(ctx, id)
					total.Add(o)
					if err != nil {
						return total, err
					}
				}
				return total, nil
			})
		},
	}
}

func atpDrawCmd() *cobra.Command {
	var req ingest.DrawRequest
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Merge one ATP bracket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				return d.service().ATPDraw(ctx, req)
			})
		},
	}
	editionFlags(cmd, &req.Edition)
	disciplineFlag(cmd, &req.Type)
	drawFlag(cmd, &req.Draw)
	cmd.Flags().IntVar(&req.DrawSize, "draw-size", 0, "Qualifying draw size; selects the qualifying round layout")
	cmd.Flags().StringVar(&req.Sets, "sets", "", "BestOf3 or BestOf5 (default BestOf3)")
	return cmd
}

func atpResultsCmd() *cobra.Command {
	var req ingest.ResultsRequest
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Write ATP results and print the stats links",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				return d.service().ATPResults(ctx, req)
			})
		},
	}
	editionFlags(cmd, &req.Edition)
	disciplineFlag(cmd, &req.Type)
	return cmd
}

func atpStatsCmd() *cobra.Command {
	var req ingest.ATPStatsRequest
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Write ATP match statistics from stats links",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				return d.service().ATPStats(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.EID, "eid", "", "Tournament id and year (5802025)")
	disciplineFlag(cmd, &req.Type)
	cmd.Flags().StringSliceVar(&req.Links, "link", nil, "Stats link from a results run (repeatable)")
	return cmd
}

func atpActivityCmd() *cobra.Command {
	var req ingest.ActivityRequest
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Write prize money and points from player activity pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				return d.service().ATPActivity(ctx, req)
			})
		},
	}
	editionFlags(cmd, &req.Edition)
	disciplineFlag(cmd, &req.Type)
	cmd.Flags().StringVar(&req.Category, "category", "", "Tournament category shown on the activity page")
	cmd.Flags().StringSliceVar(&req.Players, "player", nil, "ATP player id (repeatable)")
	return cmd
}

// --------------------------------------------------------------------------
// wta commands
// --------------------------------------------------------------------------

func wtaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wta",
		Short: "Scrape wtatennis.com",
	}
	cmd.AddCommand(wtaPlayerCmd())
	cmd.AddCommand(wtaDrawCmd())
	cmd.AddCommand(wtaStatsCmd())
	return cmd
}

func wtaPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <id>...",
		Short: "Upsert WTA player profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				svc := d.service()
				total := ingest.NewOutcome(ingest.SourceWTAPlayer)
				for _, id := range args {
					o, err := svc.WTAPlayer(ctx, id)
					total.Add(o)
					if err != nil {
						return total, err
					}
				}
				return total, nil
			})
		},
	}
}

func wtaDrawCmd() *cobra.Command {
	var req ingest.DrawRequest
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Merge every bracket of a WTA draws page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				return d.service().WTADraw(ctx, req)
			})
		},
	}
	editionFlags(cmd, &req.Edition)
	return cmd
}

func wtaStatsCmd() *cobra.Command {
	var req ingest.WTAStatsRequest
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Walk WTA match centre pages by bracket number",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				return d.service().WTAStats(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.WID, "wid", "", "WTA tournament id used in the site URL")
	cmd.Flags().StringVar(&req.Year, "year", "", "Year used in the site URL")
	cmd.Flags().StringVar(&req.EID, "eid", "", "Tournament id and year of the stored event")
	disciplineFlag(cmd, &req.Type)
	drawFlag(cmd, &req.Draw)
	cmd.Flags().IntVar(&req.DrawRange[0], "from", 1, "First match number")
	cmd.Flags().IntVar(&req.DrawRange[1], "to", 0, "Match number to stop before")
	cmd.Flags().IntSliceVar(&req.Skip, "skip", nil, "Match numbers not to visit")
	return cmd
}

// --------------------------------------------------------------------------
// import commands
// --------------------------------------------------------------------------

func importCmd() *cobra.Command {
	var target importer.Target
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load JSON snapshots exported from an earlier graph",
	}
	cmd.PersistentFlags().StringVar(&target.TID, "tid", "", "Tournament id")
	cmd.PersistentFlags().StringVar(&target.Year, "year", "", "Year")
	cmd.PersistentFlags().StringVar((*string)(&target.Tour), "tour", string(tennis.ATP), "Tour (ATP or WTA)")
	cmd.PersistentFlags().StringVar((*string)(&target.Discipline), "type", string(tennis.Singles), "Match type (Singles or Doubles)")
	cmd.PersistentFlags().StringVar((*string)(&target.Draw), "draw", string(tennis.Main), "Draw (Main or Qualifying)")

	cmd.AddCommand(&cobra.Command{
		Use:   "matches <file>",
		Short: "Merge a match snapshot onto existing rounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				return importer.New(d.store, d.recorder, logger).MatchesFile(ctx, args[0], target)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "scores <file>",
		Short: "Merge a score snapshot onto existing matches and entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				return importer.New(d.store, d.recorder, logger).ScoresFile(ctx, args[0], target)
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// plan and runs commands
// --------------------------------------------------------------------------

func planCmd() *cobra.Command {
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "plan <file.yaml>",
		Short: "Run a YAML list of ingest jobs in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ingest.LoadPlan(args[0])
			if err != nil {
				return err
			}
			if keepGoing {
				p.ContinueOnError = true
			}
			return runIngest(cmd, func(ctx context.Context, d *deps) (*ingest.Outcome, error) {
				return d.service().RunPlan(ctx, p)
			})
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "continue-on-error", false, "Run later jobs after a job fails")
	return cmd
}

func runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs from the run log",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.RunLogDatabaseURL == "" {
				return errors.New("RUNLOG_DATABASE_URL is required")
			}
			pool, err := db.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect to run log: %w", err)
			}
			defer pool.Close()

			runs, err := pool.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				status := "ok"
				if r.Failure != nil {
					status = "failed: " + *r.Failure
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %s  upserted=%d skipped=%d  %s\n",
					r.StartedAt.Format("2006-01-02 15:04:05"), r.Source, r.RunID, r.Upserted, len(r.Skipped), status)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs")
	return cmd
}
