package sim

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravpaint/internal/gravity"
	"github.com/san-kum/gravpaint/internal/level"
)

var ErrUnstable = errors.New("sim: non-finite object state")

// Simulator plays a level headless with scripted strokes.
type Simulator struct {
	level     *level.Level
	logger    *log.Logger
	metrics   []Metric
	observers []Observer
}

func New(l *level.Level, logger *log.Logger) *Simulator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{
		level:     l,
		logger:    logger,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps a fresh session until the duration elapses or the objective is
// decided. On cancellation the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	session, err := NewSession(s.level, WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	defer session.Close()

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		Frames:  make([]Frame, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	script := slices.Clone(cfg.Strokes)
	slices.SortStableFunc(script, func(a, b Stroke) int { return cmp.Compare(a.At, b.At) })
	next := 0

	t := 0.0
	dt := cfg.Dt

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(session, result)
			return result, ctx.Err()
		default:
		}

		for next < len(script) && script[next].At <= t+1e-9 {
			if _, err := session.Commit(script[next].Points); err != nil {
				s.logger.Debug("scripted stroke rejected", "at", script[next].At, "err", err)
			}
			next++
		}

		result.Times = append(result.Times, t)
		result.Frames = append(result.Frames, session.Frame())
		for _, m := range s.metrics {
			m.Observe(session.World(), t)
		}
		for _, obs := range s.observers {
			obs.OnStep(session)
		}

		outcome := session.Step(dt)
		t += dt
		result.StepsTaken++

		if err := checkFinite(session); err != nil {
			s.finish(session, result)
			return result, &RunError{Step: i, Time: t, Wrapped: err}
		}
		if outcome.Ended() {
			break
		}
	}

	result.Times = append(result.Times, t)
	result.Frames = append(result.Frames, session.Frame())
	s.finish(session, result)

	s.logger.Debug("run finished", "level", s.level.ID, "outcome", result.Outcome, "steps", result.StepsTaken)
	return result, nil
}

func (s *Simulator) finish(session *Session, result *Result) {
	result.Outcome = session.Outcome()
	if result.Outcome == Playing {
		result.Outcome = Expired
	}
	result.Score = session.Score()
	result.Stars = session.Stars()
	result.StrokesUsed = session.StrokesUsed()
	result.Rejected = session.Rejected()
	result.Final = session.World().Snapshot()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.level == nil {
		return ErrNoLevel
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	for i, st := range cfg.Strokes {
		if st.At < 0 {
			return fmt.Errorf("stroke %d: negative time %f", i, st.At)
		}
		if len(st.Points) < 2 {
			return fmt.Errorf("stroke %d: %w", i, gravity.ErrStrokeTooShort)
		}
	}
	return nil
}

func checkFinite(session *Session) error {
	for _, o := range session.World().Objects() {
		p, v := o.Position(), o.Velocity()
		for _, x := range [...]float64{p.X, p.Y, v.X, v.Y} {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("%w: object %d", ErrUnstable, o.ID())
			}
		}
	}
	return nil
}

// RunWithCallback steps a session until the callback returns false, the
// objective is decided or the duration elapses.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*Session) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	session, err := NewSession(s.level, WithLogger(s.logger))
	if err != nil {
		return err
	}
	defer session.Close()

	for session.Time() < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(session) {
			return nil
		}
		if session.Step(cfg.Dt).Ended() {
			callback(session)
			return nil
		}
	}
	return nil
}
