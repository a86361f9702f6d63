package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/ingest"
	"lectern/internal/logging"
	"lectern/internal/report"
	"lectern/internal/store"
	"lectern/internal/topics"
)

var errRunActive = errors.New("another lectern run is already in progress")

func newRunCommand(ctx *commandContext) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest the scraper exports into the unified store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestProcess(cmd, ctx, only)
		},
	}
	cmd.Flags().StringSliceVarP(&only, "source", "s", nil, "Limit the run to specific source keys (repeatable)")
	return cmd
}

func runIngestProcess(cmd *cobra.Command, cmdCtx *commandContext, only []string) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (lock %s)", errRunActive, cfg.LockPath())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runStamp := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("lectern-%s.log", runStamp))
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update lectern.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "lectern-*.log", Exclude: []string{logPath}},
	)

	runID := uuid.NewString()
	runCtx := logging.WithRunID(signalCtx, runID)
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	catalog, err := loadTopicCatalog(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open speaker store", logging.Error(err))
		return err
	}
	defer st.Close()

	runner := ingest.New(cfg, st, catalog, logger)
	summary, err := runner.Run(runCtx, only...)
	if err != nil {
		logger.Error("run aborted", logging.Error(err))
		return err
	}

	total, err := st.Count(runCtx)
	if err != nil {
		return fmt.Errorf("count speakers: %w", err)
	}
	totals := summary.Totals()
	logger.Info("run complete",
		logging.Int("read", totals.Read),
		logging.Int("ingested", totals.Ingested),
		logging.Int("new", totals.New),
		logging.Int("updated", totals.Updated),
		logging.Int("skipped", totals.Skipped),
		logging.Int64("total_speakers", total),
		logging.Duration("elapsed", summary.Duration().Round(time.Millisecond)),
	)

	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stdout)
	report.RenderRun(stdout, summary, total, report.ShouldColorize(stdout))
	return nil
}

func loadTopicCatalog(cfg *config.Config) (*topics.Catalog, error) {
	if path := cfg.Topics.MappingPath; path != "" {
		catalog, err := topics.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load topic mapping: %w", err)
		}
		return catalog, nil
	}
	catalog, err := topics.Default()
	if err != nil {
		return nil, fmt.Errorf("load embedded topic mapping: %w", err)
	}
	return catalog, nil
}

// ensureCurrentLogPointer keeps lectern.log pointing at the newest per-run
// log file. Hard links cover filesystems without symlink support.
func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "lectern.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}
