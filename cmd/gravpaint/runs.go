package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravpaint/internal/export"
	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLEVEL\tMODE\tTIME\tOUTCOME\tSCORE\tSTARS\tSTROKES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.LevelName,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Outcome,
			run.Score,
			run.Stars,
			run.StrokesUsed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("level: %s (%s)\n", meta.LevelName, meta.Outcome)
	fmt.Printf("samples: %d\n\n", len(frames))

	for _, col := range strings.Split(columns, ",") {
		col = strings.TrimSpace(col)
		data, err := storage.Series(frames, col)
		if err != nil {
			return err
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	data, err := storage.New(dataDir).LoadExport(args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return data.Write(os.Stdout)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := data.Write(f); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	snap, err := st.LoadSnapshot(runID)
	if err != nil {
		return err
	}

	l, err := st.LoadLevel(runID)
	if err != nil {
		// Runs saved without their level can still be drawn from the built-in.
		meta, merr := st.Load(runID)
		if merr != nil {
			return merr
		}
		m, merr := level.ParseMode(meta.Mode)
		if merr != nil {
			return merr
		}
		if l, merr = level.Builtin(meta.Level, m); merr != nil {
			return fmt.Errorf("%w (and %w)", err, merr)
		}
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := export.ExportSVG(path, *snap, l, svgScale); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", path)
	return nil
}
