package main

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravpaint/internal/config"
	"github.com/san-kum/gravpaint/internal/level"
)

func listLevels(cmd *cobra.Command, args []string) error {
	m, err := level.ParseMode(mode)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDIFF\tTIME\tSTROKES\tOBJECTS\tOBSTACLES\tSTARS")

	for id := 0; id <= level.TotalLevels; id++ {
		l, err := level.Builtin(id, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.0fs\t%d\t%d\t%d\t%v\n",
			l.ID, l.Name, l.Difficulty, l.TimeLimit, l.MaxStrokes, len(l.Spawns), len(l.Obstacles), l.Stars)
	}
	return w.Flush()
}

func dumpLevel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := cfg.LoadLevel()
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := level.Save(outFile, l); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		groups := make([]string, 0, len(config.Presets))
		for g := range config.Presets {
			groups = append(groups, g)
		}
		slices.Sort(groups)
		fmt.Println("preset groups:")
		for _, g := range groups {
			fmt.Printf("  %s\n", g)
		}
		return nil
	}

	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets in group: %s\n", args[0])
		return nil
	}
	slices.Sort(presets)
	fmt.Printf("presets in %s:\n", args[0])
	for _, p := range presets {
		fmt.Printf("  %s/%s\n", args[0], p)
	}
	return nil
}
