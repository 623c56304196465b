package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"slidechoreo/pkg/config"
	"slidechoreo/pkg/db"
	"slidechoreo/pkg/db/maintenance"
	"slidechoreo/pkg/logging"
	"slidechoreo/pkg/pipeline"
	"slidechoreo/pkg/store"
	"slidechoreo/pkg/version"
	"slidechoreo/pkg/watcher"
)

var (
	configPath = flag.String("config", config.DefaultPath, "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	watchFlag  = flag.Bool("watch", false, "Keep running and regenerate changed timing files")
	forceFlag  = flag.Bool("force", false, "Regenerate every file even if its inputs are unchanged")
	reportFlag = flag.Bool("report", false, "Print the last run and its warnings, then exit")
)

// options are the command line switches that shape a run.
type options struct {
	files  []string
	watch  bool
	force  bool
	report bool
}

func main() {
	flag.Parse()

	// A missing .env is normal
	_ = godotenv.Load()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{
		files:  flag.Args(),
		watch:  *watchFlag,
		force:  *forceFlag,
		report: *reportFlag,
	}
	if err := run(ctx, *configPath, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: slidechoreo failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string, opts options, out io.Writer) error {
	appCfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("slidechoreo Started", "version", version.Version)

	dbConn, st, err := initDB(appCfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if opts.report {
		return printReport(ctx, st, out)
	}

	if err := maintenance.Run(ctx, st, dbConn, appCfg.DB.Retention.Std()); err != nil {
		slog.Error("Maintenance tasks failed", "error", err)
	}

	// Snapshot before the first run so edits made during it are not missed
	var svc *watcher.Service
	if opts.watch || appCfg.Watch.Enabled {
		if svc, err = watcher.NewService([]string{appCfg.Paths.TimingsDir}); err != nil {
			return err
		}
	}

	runner := pipeline.NewRunner(appCfg, st, opts.force)
	sum, err := runner.Run(ctx, opts.files...)
	if err != nil {
		// An interrupt is a normal way to stop, not a failed run
		if ctx.Err() != nil {
			slog.Info("Run interrupted", "error", err)
			return nil
		}
		return fmt.Errorf("run failed: %w", err)
	}
	printSummary(out, sum)

	if svc == nil {
		return nil
	}
	return watch(ctx, appCfg, svc, runner, out)
}

func initDB(appCfg *config.Config) (*db.DB, store.Store, error) {
	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return dbConn, store.NewSQLiteStore(dbConn), nil
}

// watch re-runs the pipeline for changed timing files until ctx is cancelled.
func watch(ctx context.Context, appCfg *config.Config, svc *watcher.Service, runner *pipeline.Runner, out io.Writer) error {
	interval := appCfg.Watch.Interval.Std()
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Watching for timing changes", "dir", appCfg.Paths.TimingsDir, "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case <-ticker.C:
			files, ok := svc.CheckNew()
			if !ok {
				continue
			}
			sum, err := runner.Run(ctx, files...)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// Inputs may be mid-rewrite; the next tick retries
				slog.Error("Watch run failed", "error", err)
				continue
			}
			printSummary(out, sum)
		}
	}
}

func printSummary(out io.Writer, sum pipeline.Summary) {
	fmt.Fprintf(out, "Run %s: %d generated, %d unchanged, %d skipped, %d failed, %d warnings\n",
		sum.RunID, sum.Generated, sum.Unchanged, sum.Skipped, sum.Failed, sum.Warnings)
}

// printReport writes the last run and its warnings as a table.
func printReport(ctx context.Context, st store.Store, out io.Writer) error {
	last, err := st.LastRun(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last run: %w", err)
	}
	if last == nil {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "Run %s (%s)\n", last.ID, last.Status)
	fmt.Fprintf(out, "Started:  %s\n", last.StartedAt.Local().Format(time.DateTime))
	if !last.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Finished: %s\n", last.FinishedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(out, "Files:    %d generated, %d unchanged, %d skipped, %d failed\n",
		last.Generated, last.Unchanged, last.Skipped, last.Failed)

	warnings, err := st.ListWarnings(ctx, last.ID)
	if err != nil {
		return fmt.Errorf("failed to read warnings: %w", err)
	}
	if len(warnings) == 0 {
		fmt.Fprintln(out, "No warnings.")
		return nil
	}

	fmt.Fprintf(out, "\n%d warnings:\n", len(warnings))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tKIND\tBLOCK\tMESSAGE")
	for _, w := range warnings {
		block := w.BlockID
		if block == "" {
			block = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", w.TimingFile, w.Kind, block, w.Message)
	}
	return tw.Flush()
}
