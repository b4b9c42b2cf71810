// Package objective evaluates level win and loss conditions against live
// world state. An Objective is a tagged variant; behavior per kind lives in
// a dispatch table rather than behind an interface.
package objective

import (
	"errors"
	"fmt"
	"strings"
)

// ComboTimeout is how long a collision chain survives without a new hit.
const ComboTimeout = 1.5

var (
	ErrUnknownKind = errors.New("objective: unknown kind")
	ErrInvalidSpec = errors.New("objective: invalid spec")
)

// World is the part of the simulation an objective reads each tick.
type World interface {
	GoalCount() int
	CollectedCount() int
	GoalEnergy() float64
}

type Kind int

const (
	ReachGoal Kind = iota
	CollectItems
	TimeChallenge
	ChainReaction
	MinimizeStrokes
	MaximizeEnergy
)

var kindNames = [...]string{
	"reach_goal", "collect_items", "time_challenge",
	"chain_reaction", "minimize_strokes", "maximize_energy",
}

var Kinds = []Kind{ReachGoal, CollectItems, TimeChallenge, ChainReaction, MinimizeStrokes, MaximizeEnergy}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("objective(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts snake_case, kebab-case or CamelCase names.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for i, name := range kindNames {
		if strings.ReplaceAll(name, "_", "") == norm {
			return Kind(i), nil
		}
	}
	return ReachGoal, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Objective holds the counters of every variant; only those of its kind are
// meaningful.
type Objective struct {
	kind   Kind
	failed bool

	// ReachGoal, CollectItems, TimeChallenge and MinimizeStrokes count
	// goals or items; ChainReaction uses them as required and running chain.
	required int
	current  int

	timeLimit float64
	remaining float64

	maxChain     int
	chainTimeout float64

	maxStrokes  int
	strokesUsed int

	requiredEnergy float64
	totalEnergy    float64
}

func NewReachGoal(required int) *Objective {
	return &Objective{kind: ReachGoal, required: required}
}

func NewCollectItems(required int) *Objective {
	return &Objective{kind: CollectItems, required: required}
}

func NewTimeChallenge(timeLimit float64, requiredGoals int) *Objective {
	return &Objective{kind: TimeChallenge, timeLimit: timeLimit, remaining: timeLimit, required: requiredGoals}
}

func NewChainReaction(requiredLength int) *Objective {
	return &Objective{kind: ChainReaction, required: requiredLength}
}

func NewMinimizeStrokes(maxStrokes, requiredGoals int) *Objective {
	return &Objective{kind: MinimizeStrokes, maxStrokes: maxStrokes, required: requiredGoals}
}

func NewMaximizeEnergy(required float64) *Objective {
	return &Objective{kind: MaximizeEnergy, requiredEnergy: required}
}

// Update refreshes counters from w. A nil world only advances timers.
func (o *Objective) Update(dt float64, w World) {
	dispatch[o.kind].update(o, dt, w)
}

func (o *Objective) Complete() bool { return dispatch[o.kind].complete(o) }

func (o *Objective) Failed() bool { return o.failed }

// Progress is clamped to [0, 1]. A non-positive requirement counts as done.
func (o *Objective) Progress() float64 {
	p := dispatch[o.kind].progress(o)
	return max(0, min(1, p))
}

func (o *Objective) Description() string { return dispatch[o.kind].describe(o) }

// RecordCollision extends the running chain. Other kinds ignore it.
func (o *Objective) RecordCollision() {
	if o.kind != ChainReaction {
		return
	}
	o.current++
	o.chainTimeout = ComboTimeout
	if o.current > o.maxChain {
		o.maxChain = o.current
	}
}

// AddStroke counts a committed stroke. Only MinimizeStrokes tracks usage.
func (o *Objective) AddStroke() {
	if o.kind == MinimizeStrokes {
		o.strokesUsed++
	}
}

// Reset restores the state right after construction.
func (o *Objective) Reset() {
	o.failed = false
	o.current = 0
	o.remaining = o.timeLimit
	o.maxChain = 0
	o.chainTimeout = 0
	o.strokesUsed = 0
	o.totalEnergy = 0
}

func (o *Objective) Kind() Kind { return o.kind }

// Required is the target count: goals, items or chain length.
func (o *Objective) Required() int { return o.required }

// Current is the latest count: goals, items or running chain length.
func (o *Objective) Current() int { return o.current }

func (o *Objective) TimeLimit() float64      { return o.timeLimit }
func (o *Objective) Remaining() float64      { return o.remaining }
func (o *Objective) MaxChain() int           { return o.maxChain }
func (o *Objective) MaxStrokes() int         { return o.maxStrokes }
func (o *Objective) StrokesUsed() int        { return o.strokesUsed }
func (o *Objective) RequiredEnergy() float64 { return o.requiredEnergy }
func (o *Objective) TotalEnergy() float64    { return o.totalEnergy }

func ratio(cur, req int) float64 {
	if req <= 0 {
		return 1
	}
	return float64(cur) / float64(req)
}
