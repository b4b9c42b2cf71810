package sim

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/gravity"
	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/objective"
	"github.com/san-kum/gravpaint/internal/world"
)

type Option func(*Session)

func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session plays one level: it owns the world, the objective, the spawner and
// the player's strokes, and advances them in a fixed order every tick.
type Session struct {
	logger *log.Logger
	level  *level.Level

	world     *world.World
	objective *objective.Objective
	spawner   *level.Spawner
	strokes   *gravity.StrokeQueue

	time     float64
	outcome  Outcome
	score    int
	stars    int
	rejected int
}

func NewSession(l *level.Level, opts ...Option) (*Session, error) {
	if l == nil {
		return nil, ErrNoLevel
	}
	s := &Session{
		logger:  log.New(io.Discard),
		level:   l,
		strokes: gravity.NewStrokeQueue(gravity.MaxActiveStrokes),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) build() error {
	obj, err := s.level.NewObjective()
	if err != nil {
		return fmt.Errorf("level %d: %w", s.level.ID, err)
	}

	w := world.New(world.WithLogger(s.logger))
	w.Initialize()
	if err := s.level.Build(w); err != nil {
		w.Shutdown()
		return err
	}
	w.SetCollisionCallback(func(_, _ *world.Object) {
		s.objective.RecordCollision()
	})

	s.world = w
	s.objective = obj
	s.spawner = level.NewSpawner(s.level.Spawns)
	s.strokes.Clear()
	s.time = 0
	s.outcome = Playing
	s.score, s.stars, s.rejected = 0, 0, 0

	s.logger.Debug("session started", "level", s.level.ID, "objective", obj.Kind())
	return nil
}

// Restart throws the current world away and replays the level from scratch.
func (s *Session) Restart() error {
	s.Close()
	return s.build()
}

func (s *Session) Close() {
	if s.world != nil {
		s.world.Shutdown()
	}
}

// Step advances the session by dt seconds and returns the outcome. Once the
// objective is decided further steps do nothing.
func (s *Session) Step(dt float64) Outcome {
	if s.outcome.Ended() {
		return s.outcome
	}
	s.time += dt

	s.strokes.Update(dt)
	s.world.ApplyGravityFromStrokes(s.strokes.Active())
	s.world.Update(dt)
	s.spawner.Update(dt, s.world)
	s.objective.Update(dt, s.world)

	switch {
	case s.objective.Complete():
		s.outcome = Completed
		s.score = s.level.Score(s.time, s.strokes.Committed())
		s.stars = s.level.StarCount(s.score)
		s.logger.Info("level complete", "level", s.level.ID, "time", s.time, "score", s.score, "stars", s.stars)
	case s.objective.Failed():
		s.outcome = Failed
		s.logger.Info("level failed", "level", s.level.ID, "time", s.time)
	}
	return s.outcome
}

// Commit turns a swipe into a stroke. Swipes shorter than gravity.MinSwipe
// are rejected.
func (s *Session) Commit(points []r2.Vec) (*gravity.Stroke, error) {
	if s.outcome.Ended() {
		return nil, fmt.Errorf("commit stroke: level already %s", s.outcome)
	}
	st, err := s.strokes.Commit(points, s.time)
	if err != nil {
		s.rejected++
		return nil, err
	}
	s.objective.AddStroke()
	s.logger.Debug("stroke committed", "id", st.ID, "strength", st.Strength, "dir", st.Direction)
	return st, nil
}

// TutorialHint is the tutorial step matching how many strokes have been
// drawn, or "" outside tutorials.
func (s *Session) TutorialHint() string {
	steps := s.level.TutorialSteps
	if !s.level.Tutorial || len(steps) == 0 {
		return ""
	}
	return steps[min(s.strokes.Committed(), len(steps)-1)]
}

// Remaining is the time left on the level clock, never negative.
func (s *Session) Remaining() float64 { return max(0, s.level.TimeLimit-s.time) }

func (s *Session) World() *world.World             { return s.world }
func (s *Session) Level() *level.Level             { return s.level }
func (s *Session) Objective() *objective.Objective { return s.objective }
func (s *Session) Strokes() []*gravity.Stroke      { return s.strokes.Active() }
func (s *Session) StrokesUsed() int                { return s.strokes.Committed() }
func (s *Session) Rejected() int                   { return s.rejected }
func (s *Session) Time() float64                   { return s.time }
func (s *Session) Outcome() Outcome                { return s.outcome }
func (s *Session) Score() int                      { return s.score }
func (s *Session) Stars() int                      { return s.stars }
func (s *Session) Logger() *log.Logger             { return s.logger }

// Frame summarizes the current scene.
func (s *Session) Frame() Frame {
	f := Frame{
		Time:     s.time,
		Objects:  s.world.ObjectCount(),
		InGoal:   s.world.GoalCount(),
		Strokes:  len(s.strokes.Active()),
		Progress: s.objective.Progress(),
	}
	for _, o := range s.world.Objects() {
		f.Energy += o.Energy()
		f.MaxSpeed = max(f.MaxSpeed, o.Speed())
	}
	for _, surf := range s.world.Surfaces() {
		f.Deformation += surf.TotalDeformation()
	}
	return f
}
