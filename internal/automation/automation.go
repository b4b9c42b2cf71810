// Package automation runs batches of headless games: yaml scenarios, gravity
// sweeps and seeded random trials.
package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravpaint/internal/config"
	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/metrics"
	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/storage"
)

// Scenario is a named list of runs played in order.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset ("group/name") or a config layered over
// the defaults.
type ScenarioStep struct {
	Name   string         `yaml:"name"`
	Preset string         `yaml:"preset,omitempty"`
	Config *config.Config `yaml:"config,omitempty"`
	// Save stores the run when the runner has a store.
	Save bool `yaml:"save"`
}

func (s *ScenarioStep) UnmarshalYAML(node *yaml.Node) error {
	type plain ScenarioStep
	step := plain{Config: config.DefaultConfig()}
	if err := node.Decode(&step); err != nil {
		return err
	}
	*s = ScenarioStep(step)
	return nil
}

func (s ScenarioStep) resolve() (*config.Config, error) {
	if s.Preset == "" {
		if s.Config == nil {
			return config.DefaultConfig(), nil
		}
		return s.Config, nil
	}
	group, name, _ := strings.Cut(s.Preset, "/")
	p := config.GetPreset(group, name)
	if p == nil {
		return nil, fmt.Errorf("unknown preset %q", s.Preset)
	}
	cfg := *p
	return &cfg, nil
}

// StepResult pairs a run with the id it was stored under, if any.
type StepResult struct {
	Name   string
	Level  *level.Level
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

type Runner struct {
	logger *log.Logger
	store  *storage.Store
}

// NewRunner returns a runner; store may be nil to skip saving.
func NewRunner(logger *log.Logger, store *storage.Store) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{logger: logger, store: store}
}

// Play runs a single config with the default metrics.
func (r *Runner) Play(ctx context.Context, cfg *config.Config) (*level.Level, *sim.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	l, err := cfg.LoadLevel()
	if err != nil {
		return nil, nil, err
	}

	s := sim.New(l, r.logger)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	result, err := s.Run(ctx, cfg.RunConfig())
	return l, result, err
}

// RunInfo describes cfg and its level for storage.
func RunInfo(cfg *config.Config, l *level.Level) storage.RunInfo {
	return storage.RunInfo{
		Level:     l.ID,
		LevelName: l.Name,
		Mode:      cfg.Mode,
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
	}
}

func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.logger.Info("running step", "step", fmt.Sprintf("%d/%d", i+1, len(scenario.Steps)), "name", step.Name)

		l, result, err := r.Play(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sr := StepResult{Name: step.Name, Level: l, Result: result}
		if step.Save && r.store != nil {
			if sr.RunID, err = r.store.Save(RunInfo(cfg, l), result); err == nil {
				err = r.store.SaveLevel(sr.RunID, l)
			}
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// GravitySweep plays one config across evenly spaced gravity scales.
type GravitySweep struct {
	Config   *config.Config
	MinScale float64
	MaxScale float64
	NumSteps int
}

type SweepResult struct {
	GravityScale float64
	Outcome      sim.Outcome
	Score        int
	Time         float64
	MaxSpeed     float64
}

func (r *Runner) RunSweep(ctx context.Context, sweep *GravitySweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if sweep.MinScale <= 0 || sweep.MaxScale < sweep.MinScale {
		return nil, fmt.Errorf("invalid gravity range %f-%f", sweep.MinScale, sweep.MaxScale)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	scaleStep := (sweep.MaxScale - sweep.MinScale) / float64(sweep.NumSteps-1)

	for i := range sweep.NumSteps {
		cfg := *sweep.Config
		cfg.GravityScale = sweep.MinScale + float64(i)*scaleStep

		_, result, err := r.Play(ctx, &cfg)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			GravityScale: cfg.GravityScale,
			Outcome:      result.Outcome,
			Score:        result.Score,
			Time:         result.Times[len(result.Times)-1],
			MaxSpeed:     result.Metrics["max_speed"],
		})
		r.logger.Info("sweep", "step", fmt.Sprintf("%d/%d", i+1, sweep.NumSteps), "gravity", cfg.GravityScale, "outcome", result.Outcome)
	}

	return results, nil
}

// TrialConfig plays random levels of one difficulty with consecutive seeds.
type TrialConfig struct {
	Config     *config.Config
	Difficulty int
	BaseSeed   uint64
	NumTrials  int
}

type TrialResult struct {
	Seed    uint64
	Outcome sim.Outcome
	Score   int
	Stars   int
}

func (r *Runner) RunTrials(ctx context.Context, tc *TrialConfig) ([]TrialResult, error) {
	results := make([]TrialResult, 0, tc.NumTrials)

	for trial := range tc.NumTrials {
		cfg := *tc.Config
		cfg.Random = tc.Difficulty
		cfg.Seed = tc.BaseSeed + uint64(trial)

		_, result, err := r.Play(ctx, &cfg)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		results = append(results, TrialResult{
			Seed:    cfg.Seed,
			Outcome: result.Outcome,
			Score:   result.Score,
			Stars:   result.Stars,
		})

		if (trial+1)%10 == 0 {
			r.logger.Info("trials", "done", trial+1, "of", tc.NumTrials)
		}
	}

	return results, nil
}

// TrialStats counts completed runs against the rest.
func TrialStats(results []TrialResult) (completed, other int) {
	for _, r := range results {
		if r.Outcome == sim.Completed {
			completed++
		} else {
			other++
		}
	}
	return
}
