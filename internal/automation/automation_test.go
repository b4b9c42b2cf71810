package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravpaint/internal/config"
	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/storage"
)

const scenarioYAML = `name: smoke
description: tutorial then a random level
steps:
  - name: tutorial
    preset: tutorial/swipe_down
    save: true
  - name: random
    config:
      random: 3
      seed: 11
      dt: 0.05
      duration: 2
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 2 {
		t.Fatalf("expected 2 steps in smoke, got %q with %d", sc.Name, len(sc.Steps))
	}

	cfg := sc.Steps[1].Config
	if cfg.Random != 3 || cfg.Dt != 0.05 {
		t.Errorf("expected overrides applied, got %+v", cfg)
	}
	if cfg.Mode != config.DefaultMode || cfg.Screen.Width != config.DefaultWidth {
		t.Errorf("expected defaults for unset fields, got mode %q width %d", cfg.Mode, cfg.Screen.Width)
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for a scenario without steps")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}

	results, err := NewRunner(nil, store).RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Result.Outcome != sim.Completed {
		t.Errorf("expected the scripted tutorial to complete, got %s", results[0].Result.Outcome)
	}
	if results[0].RunID == "" || results[1].RunID != "" {
		t.Errorf("expected only the first step saved, got %q and %q", results[0].RunID, results[1].RunID)
	}
	if results[1].Level.ID != -1 {
		t.Errorf("expected a random level, got %d", results[1].Level.ID)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 || runs[0].LevelName != results[0].Level.Name {
		t.Errorf("expected the tutorial run stored, got %+v", runs)
	}
}

func TestRunScenarioUnknownPreset(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "tutorial/nope"}}}
	if _, err := NewRunner(nil, nil).RunScenario(context.Background(), sc); err == nil {
		t.Error("expected error for an unknown preset")
	}
}

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Dt = 0.05
	cfg.Duration = 1
	return cfg
}

func TestRunSweep(t *testing.T) {
	r := NewRunner(nil, nil)
	results, err := r.RunSweep(context.Background(), &GravitySweep{
		Config:   shortConfig(),
		MinScale: 0.5,
		MaxScale: 1.5,
		NumSteps: 3,
	})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []float64{0.5, 1.0, 1.5} {
		if d := results[i].GravityScale - want; d > 1e-9 || d < -1e-9 {
			t.Errorf("step %d: expected gravity %f, got %f", i, want, results[i].GravityScale)
		}
	}

	tests := []GravitySweep{
		{Config: shortConfig(), MinScale: 1, MaxScale: 2, NumSteps: 1},
		{Config: shortConfig(), MinScale: 0, MaxScale: 2, NumSteps: 3},
		{Config: shortConfig(), MinScale: 2, MaxScale: 1, NumSteps: 3},
	}
	for i, tt := range tests {
		if _, err := r.RunSweep(context.Background(), &tt); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestRunTrials(t *testing.T) {
	results, err := NewRunner(nil, nil).RunTrials(context.Background(), &TrialConfig{
		Config:     shortConfig(),
		Difficulty: 2,
		BaseSeed:   100,
		NumTrials:  3,
	})
	if err != nil {
		t.Fatalf("trials: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != 100+uint64(i) {
			t.Errorf("trial %d: expected seed %d, got %d", i, 100+i, r.Seed)
		}
	}

	completed, other := TrialStats(results)
	if completed+other != 3 {
		t.Errorf("expected 3 counted trials, got %d", completed+other)
	}
}

func TestTrialStats(t *testing.T) {
	completed, other := TrialStats([]TrialResult{
		{Outcome: sim.Completed}, {Outcome: sim.Expired}, {Outcome: sim.Completed}, {Outcome: sim.Failed},
	})
	if completed != 2 || other != 2 {
		t.Errorf("expected 2 and 2, got %d and %d", completed, other)
	}
}
