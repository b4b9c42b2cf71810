package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravpaint/internal/automation"
	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/storage"
	"github.com/san-kum/gravpaint/internal/stream"
	"github.com/san-kum/gravpaint/internal/viz"
)

func playLevel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := cfg.LoadLevel()
	if err != nil {
		return err
	}
	m, err := level.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	return viz.RunLive(l, m, viz.WithLogger(logger))
}

func serveLevel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := cfg.LoadLevel()
	if err != nil {
		return err
	}
	session, err := sim.NewSession(l, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	defer session.Close()

	hub := stream.NewHub(logger)
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
		cancel()
	}()
	logger.Info("serving", "addr", addr, "level", l.ID)

	runErr := hub.Run(ctx, session)

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func newRunner() (*automation.Runner, error) {
	if !save {
		return automation.NewRunner(logger, nil), nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return automation.NewRunner(logger, st), nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	runner, err := newRunner()
	if err != nil {
		return err
	}

	fmt.Printf("scenario %s: %s\n", sc.Name, sc.Description)
	results, err := runner.RunScenario(context.Background(), sc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLEVEL\tOUTCOME\tSCORE\tSTARS\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.Name, r.Level.Name, r.Result.Outcome, r.Result.Score, r.Result.Stars, r.RunID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	results, err := automation.NewRunner(logger, nil).RunSweep(context.Background(), &automation.GravitySweep{
		Config:   cfg,
		MinScale: sweepMin,
		MaxScale: sweepMax,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRAVITY\tOUTCOME\tSCORE\tTIME\tMAX SPEED")
	for _, r := range results {
		fmt.Fprintf(w, "%.2fx\t%s\t%d\t%.2fs\t%.1f\n", r.GravityScale, r.Outcome, r.Score, r.Time, r.MaxSpeed)
	}
	return w.Flush()
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	difficulty := cfg.Random
	if difficulty == 0 {
		difficulty = level.Difficulty(max(cfg.Level, 1))
	}

	results, err := automation.NewRunner(logger, nil).RunTrials(context.Background(), &automation.TrialConfig{
		Config:     cfg,
		Difficulty: difficulty,
		BaseSeed:   cfg.Seed,
		NumTrials:  trials,
	})
	if err != nil {
		return err
	}

	completed, other := automation.TrialStats(results)
	fmt.Printf("difficulty %d: %d/%d completed (%d expired or failed)\n", difficulty, completed, len(results), other)
	return nil
}
