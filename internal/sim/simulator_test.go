package sim

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/world"
)

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(w *world.World, time float64) {
	t.count++
	t.sum += float64(w.ObjectCount())
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type countingObserver struct{ steps int }

func (c *countingObserver) OnStep(*Session) { c.steps++ }

func TestSimulatorRun(t *testing.T) {
	sim := New(level.Tutorial(), nil)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if result.Outcome != Expired {
		t.Errorf("expected expired after one second, got %s", result.Outcome)
	}
	if len(result.Final.Objects) != 1 {
		t.Errorf("expected the ball in the final snapshot, got %d objects", len(result.Final.Objects))
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(level.Tutorial(), nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"negative stroke time", Config{Dt: 0.1, Duration: 1, Strokes: []Stroke{{At: -1, Points: make([]r2.Vec, 2)}}}},
		{"single point stroke", Config{Dt: 0.1, Duration: 1, Strokes: []Stroke{{At: 0, Points: make([]r2.Vec, 1)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if _, err := New(nil, nil).Run(context.Background(), Config{Dt: 0.1, Duration: 1}); !errors.Is(err, ErrNoLevel) {
		t.Errorf("expected ErrNoLevel, got %v", err)
	}
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	sim := New(level.Tutorial(), nil)

	metric := &testMetric{}
	obs := &countingObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if obs.steps != 10 {
		t.Errorf("expected 10 observer calls, got %d", obs.steps)
	}
}

func TestSimulatorCompletesTutorial(t *testing.T) {
	sim := New(level.Tutorial(), nil)

	cfg := Config{
		Dt:       dt,
		Duration: 60,
		Strokes: []Stroke{
			{At: 1, Points: swipe(540, 300, 540, 600)},
			{At: 0.5, Points: swipe(540, 200, 542, 201)},
		},
	}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Outcome != Completed {
		t.Fatalf("expected completion, got %s", result.Outcome)
	}
	if result.StepsTaken >= 3600 {
		t.Errorf("expected an early stop, took %d steps", result.StepsTaken)
	}
	if result.StrokesUsed != 1 || result.Rejected != 1 {
		t.Errorf("expected 1 used and 1 rejected stroke, got %d and %d", result.StrokesUsed, result.Rejected)
	}
	if result.Score <= level.BaseGoalScore || result.Stars == 0 {
		t.Errorf("expected a bonus score with stars, got %d/%d", result.Score, result.Stars)
	}
	if last := result.Frames[len(result.Frames)-1]; last.InGoal != 1 || last.Progress != 1 {
		t.Errorf("expected the last frame to show the goal reached, got %+v", last)
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(level.Tutorial(), nil).Run(ctx, Config{Dt: dt, Duration: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected an empty partial result, got %+v", result)
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(level.Tutorial(), nil)

	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: dt, Duration: 10}, func(s *Session) bool {
		calls++
		return calls < 30
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 30 {
		t.Errorf("expected the callback to stop the run at 30, got %d", calls)
	}
}

func TestRunError(t *testing.T) {
	err := fmt.Errorf("run: %w", &RunError{Step: 150, Time: 2.5, Wrapped: ErrUnstable})

	if !errors.Is(err, ErrUnstable) {
		t.Error("expected RunError to unwrap to ErrUnstable")
	}
	var re *RunError
	if !errors.As(err, &re) || re.Step != 150 {
		t.Errorf("expected RunError at step 150, got %v", re)
	}
	if want := "run: step 150 (t=2.5000): sim: non-finite object state"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestEnsemble(t *testing.T) {
	levels := []*level.Level{level.Tutorial(), level.Generate(5, level.Easy), level.Generate(30, level.Hard)}
	ens := NewEnsemble(levels, nil, func() []Metric { return []Metric{&testMetric{}} })

	results, err := ens.Run(context.Background(), Config{Dt: 0.05, Duration: 1})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != len(levels) {
		t.Fatalf("expected %d results, got %d", len(levels), len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 20 {
			t.Errorf("run %d: expected 20 steps, got %d", i, r.StepsTaken)
		}
		if _, ok := r.Metrics["test"]; !ok {
			t.Errorf("run %d: missing metric", i)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{Playing: "playing", Completed: "completed", Failed: "failed", Expired: "expired", 9: "Outcome(9)"} {
		if o.String() != want {
			t.Errorf("expected %q, got %q", want, o.String())
		}
	}
}
