package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != DefaultLevel {
		t.Errorf("expected level %d, got %d", DefaultLevel, cfg.Level)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tutorial", "swipe_down")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Strokes) != 3 {
		t.Errorf("expected 3 strokes, got %d", len(cfg.Strokes))
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("tutorial", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "idle")
	if cfg != nil {
		t.Error("expected nil for nonexistent group")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("campaign")
	if len(presets) != 3 {
		t.Errorf("expected 3 campaign presets, got %d", len(presets))
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent group")
	}
}

func TestPresetsValidate(t *testing.T) {
	for group, presets := range Presets {
		for name, cfg := range presets {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", group, name, err)
			}
			if _, err := cfg.LoadLevel(); err != nil {
				t.Errorf("%s/%s: load level: %v", group, name, err)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, "dt must be positive"},
		{"zero duration", func(c *Config) { c.Duration = 0 }, "duration must be positive"},
		{"dt over duration", func(c *Config) { c.Dt = 100 }, "cannot exceed"},
		{"bad mode", func(c *Config) { c.Mode = "nightmare" }, "mode"},
		{"level out of range", func(c *Config) { c.Level = 51 }, "level must be"},
		{"negative gravity", func(c *Config) { c.GravityScale = -1 }, "gravity scale"},
		{"tiny screen", func(c *Config) { c.Screen.Width = 2 }, "too small"},
		{"late stroke", func(c *Config) { c.Strokes = []StrokeConfig{{At: 99}} }, "outside run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestStrokePoints(t *testing.T) {
	s := swipe(0, 0, 0, 70, 140)
	pts := s.Points()
	if len(pts) != DefaultSamples {
		t.Fatalf("expected %d samples, got %d", DefaultSamples, len(pts))
	}
	if pts[0].X != 0 || pts[0].Y != 0 {
		t.Errorf("expected first sample at origin, got %v", pts[0])
	}
	if last := pts[len(pts)-1]; last.X != 70 || last.Y != 140 {
		t.Errorf("expected last sample at (70,140), got %v", last)
	}

	s.Samples = 5
	pts = s.Points()
	if len(pts) != 5 || pts[2].X != 35 || pts[2].Y != 70 {
		t.Errorf("expected midpoint (35,70) of 5 samples, got %v", pts)
	}
}

func TestLoadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = 0
	l, err := cfg.LoadLevel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Tutorial {
		t.Error("expected the tutorial for level 0")
	}

	cfg.Random = 4
	cfg.Seed = 11
	cfg.GravityScale = 2
	l, err = cfg.LoadLevel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Difficulty != 4 || l.GravityScale != 2 {
		t.Errorf("expected random difficulty 4 with gravity 2, got %d and %f", l.Difficulty, l.GravityScale)
	}

	cfg.LevelFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := cfg.LoadLevel(); err == nil {
		t.Error("expected error for a missing level file")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	want := GetPreset("random", "heavy")

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Random != want.Random || got.Seed != want.Seed || got.GravityScale != want.GravityScale {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestRunConfig(t *testing.T) {
	cfg := GetPreset("tutorial", "swipe_down")
	run := cfg.RunConfig()

	if run.Dt != cfg.Dt || run.Duration != cfg.Duration {
		t.Errorf("expected dt %f and duration %f, got %f and %f", cfg.Dt, cfg.Duration, run.Dt, run.Duration)
	}
	if len(run.Strokes) != len(cfg.Strokes) {
		t.Fatalf("expected %d strokes, got %d", len(cfg.Strokes), len(run.Strokes))
	}
	for i, st := range run.Strokes {
		if st.At != cfg.Strokes[i].At || len(st.Points) < 2 {
			t.Errorf("stroke %d: expected time %f with samples, got %f/%d", i, cfg.Strokes[i].At, st.At, len(st.Points))
		}
	}
}
