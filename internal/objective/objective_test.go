package objective

import (
	"errors"
	"testing"
)

type fakeWorld struct {
	goals     int
	collected int
	energy    float64
}

func (f *fakeWorld) GoalCount() int      { return f.goals }
func (f *fakeWorld) CollectedCount() int { return f.collected }
func (f *fakeWorld) GoalEnergy() float64 { return f.energy }

func TestCountObjectives(t *testing.T) {
	tests := []struct {
		name string
		obj  *Objective
		set  func(w *fakeWorld, n int)
	}{
		{"reach goal", NewReachGoal(3), func(w *fakeWorld, n int) { w.goals = n }},
		{"collect items", NewCollectItems(3), func(w *fakeWorld, n int) { w.collected = n }},
		{"minimize strokes", NewMinimizeStrokes(5, 3), func(w *fakeWorld, n int) { w.goals = n }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWorld{}

			tt.set(w, 2)
			tt.obj.Update(0.1, w)
			if tt.obj.Complete() {
				t.Error("expected incomplete with one short")
			}
			if p := tt.obj.Progress(); p < 0.666 || p > 0.667 {
				t.Errorf("expected progress 2/3, got %f", p)
			}

			tt.set(w, 3)
			tt.obj.Update(0.1, w)
			if !tt.obj.Complete() {
				t.Error("expected complete at required count")
			}
			if tt.obj.Progress() != 1 {
				t.Errorf("expected progress 1, got %f", tt.obj.Progress())
			}
		})
	}
}

func TestProgressIsClamped(t *testing.T) {
	o := NewReachGoal(2)
	o.Update(0, &fakeWorld{goals: 5})
	if o.Progress() != 1 {
		t.Errorf("expected progress clamped to 1, got %f", o.Progress())
	}

	zero := NewCollectItems(0)
	if zero.Progress() != 1 || !zero.Complete() {
		t.Error("expected zero requirement to be complete")
	}

	e := NewMaximizeEnergy(0)
	if e.Progress() != 1 {
		t.Errorf("expected progress 1 for zero energy target, got %f", e.Progress())
	}
}

func TestTimeChallenge(t *testing.T) {
	o := NewTimeChallenge(10, 1)
	w := &fakeWorld{}

	for i := 0; i < 99; i++ {
		o.Update(0.1, w)
	}
	if o.Failed() {
		t.Fatalf("failed early with %f remaining", o.Remaining())
	}

	for i := 0; i < 20; i++ {
		o.Update(0.1, w)
	}
	if !o.Failed() {
		t.Fatal("expected failure after the time limit")
	}

	w.goals = 1
	o.Update(0.1, w)
	if o.Complete() {
		t.Error("expected no completion after failure")
	}
	if !o.Failed() {
		t.Error("failure must latch")
	}
}

func TestTimeChallengeCompletesInTime(t *testing.T) {
	o := NewTimeChallenge(5, 2)
	w := &fakeWorld{goals: 2}
	o.Update(1, w)

	if !o.Complete() || o.Failed() {
		t.Error("expected completion with time left")
	}
	if got := o.Description(); got != "Time: 4s - Goals: 2/2" {
		t.Errorf("unexpected description %q", got)
	}
}

func TestChainReaction(t *testing.T) {
	o := NewChainReaction(3)

	o.RecordCollision()
	o.Update(1, nil)
	o.RecordCollision()
	if o.Current() != 2 || o.MaxChain() != 2 {
		t.Fatalf("expected chain 2, got current=%d max=%d", o.Current(), o.MaxChain())
	}
	if got := o.Description(); got != "Chain reaction: 2/3 (current: 2)" {
		t.Errorf("unexpected description %q", got)
	}

	o.Update(1, nil)
	o.Update(0.6, nil)
	if o.Current() != 0 {
		t.Errorf("expected chain reset after timeout, got %d", o.Current())
	}
	if o.MaxChain() != 2 {
		t.Errorf("expected max chain retained, got %d", o.MaxChain())
	}
	if got := o.Description(); got != "Chain reaction: 2/3" {
		t.Errorf("unexpected description %q", got)
	}

	for i := 0; i < 3; i++ {
		o.RecordCollision()
		o.Update(0.5, nil)
	}
	if !o.Complete() {
		t.Error("expected complete after a chain of 3")
	}
}

func TestMinimizeStrokes(t *testing.T) {
	o := NewMinimizeStrokes(2, 1)
	w := &fakeWorld{}

	o.AddStroke()
	o.AddStroke()
	o.Update(0.1, w)
	if o.Failed() {
		t.Error("expected no failure at the budget")
	}

	o.AddStroke()
	o.Update(0.1, w)
	if !o.Failed() {
		t.Error("expected failure over budget with goals short")
	}
	if got := o.Description(); got != "Strokes: 3/2 - Goals: 0/1" {
		t.Errorf("unexpected description %q", got)
	}

	w.goals = 1
	o.Update(0.1, w)
	if !o.Complete() {
		t.Error("goals met should complete regardless of strokes")
	}
}

func TestMaximizeEnergy(t *testing.T) {
	o := NewMaximizeEnergy(150)
	w := &fakeWorld{energy: 90}

	o.Update(0.1, w)
	if o.Complete() {
		t.Error("expected incomplete below target")
	}
	if p := o.Progress(); p != 0.6 {
		t.Errorf("expected progress 0.6, got %f", p)
	}

	w.energy = 40
	o.Update(0.1, w)
	if o.TotalEnergy() != 40 {
		t.Errorf("expected energy recomputed to 40, got %f", o.TotalEnergy())
	}

	w.energy = 151.5
	o.Update(0.1, w)
	if !o.Complete() {
		t.Error("expected complete above target")
	}
	if got := o.Description(); got != "Energy in goal: 151/150" {
		t.Errorf("unexpected description %q", got)
	}
}

func TestHooksIgnoredByOtherKinds(t *testing.T) {
	o := NewReachGoal(1)
	o.RecordCollision()
	o.AddStroke()
	if o.Current() != 0 || o.StrokesUsed() != 0 || o.MaxChain() != 0 {
		t.Error("expected hooks to be no-ops for reach goal")
	}
}

func TestDescriptions(t *testing.T) {
	tests := []struct {
		obj  *Objective
		want string
	}{
		{NewReachGoal(2), "Guide 0/2 objects to goal"},
		{NewCollectItems(4), "Collect 0/4 items"},
		{NewChainReaction(5), "Chain reaction: 0/5"},
		{NewMaximizeEnergy(80), "Energy in goal: 0/80"},
	}
	for _, tt := range tests {
		if got := tt.obj.Description(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestReset(t *testing.T) {
	o := NewTimeChallenge(1, 1)
	o.Update(2, &fakeWorld{goals: 1})
	o.Reset()

	if o.Failed() || o.Remaining() != 1 || o.Current() != 0 {
		t.Errorf("expected fresh state, got failed=%v remaining=%f current=%d", o.Failed(), o.Remaining(), o.Current())
	}
}

func TestParseKind(t *testing.T) {
	for _, in := range []string{"time_challenge", "TimeChallenge", "time-challenge"} {
		k, err := ParseKind(in)
		if err != nil || k != TimeChallenge {
			t.Errorf("parse %q: got %s, %v", in, k, err)
		}
	}
	if _, err := ParseKind("win"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestNewFromSpec(t *testing.T) {
	tests := []struct {
		spec Spec
		kind Kind
	}{
		{Spec{Type: "reach_goal"}, ReachGoal},
		{Spec{Type: "collect_items", Count: 3}, CollectItems},
		{Spec{Type: "time_challenge", TimeLimit: 30, Count: 2}, TimeChallenge},
		{Spec{Type: "chain_reaction", Count: 4}, ChainReaction},
		{Spec{Type: "minimize_strokes", MaxStrokes: 3}, MinimizeStrokes},
		{Spec{Type: "maximize_energy", Energy: 120}, MaximizeEnergy},
	}

	for _, tt := range tests {
		t.Run(tt.spec.Type, func(t *testing.T) {
			o, err := New(tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.Kind() != tt.kind {
				t.Errorf("expected %s, got %s", tt.kind, o.Kind())
			}

			again, err := New(o.Spec())
			if err != nil {
				t.Fatalf("rebuild: %v", err)
			}
			if again.Spec() != o.Spec() {
				t.Errorf("expected %+v, got %+v", o.Spec(), again.Spec())
			}
		})
	}

	if o, _ := New(Spec{Type: "reach_goal"}); o.Required() != 1 {
		t.Errorf("expected default count 1, got %d", o.Required())
	}
}

func TestNewRejectsBadSpecs(t *testing.T) {
	bad := []Spec{
		{Type: "time_challenge"},
		{Type: "reach_goal", Count: -1},
	}
	for _, s := range bad {
		if _, err := New(s); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("expected ErrInvalidSpec for %+v, got %v", s, err)
		}
	}
	if _, err := New(Spec{Type: "nope"}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}
