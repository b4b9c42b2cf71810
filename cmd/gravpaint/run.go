package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravpaint/internal/automation"
	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/metrics"
	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/storage"
	"github.com/san-kum/gravpaint/internal/tui"
)

func runLevel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := cfg.LoadLevel()
	if err != nil {
		return err
	}

	s := sim.New(l, logger)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	var renderer *tui.LiveRenderer
	if watch {
		renderer = tui.NewLiveRenderer(os.Stdout, cfg.Screen.Width, cfg.Screen.Height, frameRate)
		s.AddObserver(renderer)
		renderer.Start()
		defer renderer.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running level %d (%s)...\n", l.ID, l.Name)
	start := time.Now()

	result, err := s.Run(ctx, cfg.RunConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("outcome: %s\n", result.Outcome)
	if result.Outcome == sim.Completed {
		fmt.Printf("score: %d (%d stars)\n", result.Score, result.Stars)
	}
	fmt.Printf("steps: %d  strokes: %d  rejected: %d\n", result.StepsTaken, result.StrokesUsed, result.Rejected)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(automation.RunInfo(cfg, l), result)
		if err != nil {
			return err
		}
		if err := st.SaveLevel(runID, l); err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func benchLevels(cmd *cobra.Command, args []string) error {
	m, err := level.ParseMode(mode)
	if err != nil {
		return err
	}

	ids := []int{0, 1, 10, 25, 50}
	dts := []float64{1.0 / 120, 1.0 / 60, 1.0 / 30}
	const dur = 10.0

	fmt.Printf("benchmarking %s levels\n\n", m)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tDT\tSTEPS\tTIME\tSTEPS/SEC\tOUTCOME")

	for _, id := range ids {
		l, err := level.Builtin(id, m)
		if err != nil {
			return err
		}
		for _, dt := range dts {
			start := time.Now()
			result, err := sim.New(l, logger).Run(context.Background(), sim.Config{Dt: dt, Duration: dur})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%.4fs\t%d\t%v\t%.0f\t%s\n",
				id, dt, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds(), result.Outcome)
		}
	}

	return w.Flush()
}
