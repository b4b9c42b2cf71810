package objective

import "fmt"

// Spec is the serialized form used by level files.
type Spec struct {
	Type       string  `yaml:"type" json:"type"`
	Count      int     `yaml:"count,omitempty" json:"count,omitempty"`
	TimeLimit  float64 `yaml:"time_limit,omitempty" json:"time_limit,omitempty"`
	Energy     float64 `yaml:"energy,omitempty" json:"energy,omitempty"`
	MaxStrokes int     `yaml:"max_strokes,omitempty" json:"max_strokes,omitempty"`
}

// New builds an objective from s. Count defaults to 1.
func New(s Spec) (*Objective, error) {
	kind, err := ParseKind(s.Type)
	if err != nil {
		return nil, err
	}
	if s.Count < 0 || s.TimeLimit < 0 || s.Energy < 0 || s.MaxStrokes < 0 {
		return nil, fmt.Errorf("%w: negative value in %+v", ErrInvalidSpec, s)
	}
	count := s.Count
	if count == 0 {
		count = 1
	}

	switch kind {
	case CollectItems:
		return NewCollectItems(count), nil
	case TimeChallenge:
		if s.TimeLimit == 0 {
			return nil, fmt.Errorf("%w: time_challenge needs time_limit", ErrInvalidSpec)
		}
		return NewTimeChallenge(s.TimeLimit, count), nil
	case ChainReaction:
		return NewChainReaction(count), nil
	case MinimizeStrokes:
		return NewMinimizeStrokes(s.MaxStrokes, count), nil
	case MaximizeEnergy:
		return NewMaximizeEnergy(s.Energy), nil
	default:
		return NewReachGoal(count), nil
	}
}

// Spec returns the serialized form of o.
func (o *Objective) Spec() Spec {
	s := Spec{Type: o.kind.String()}
	switch o.kind {
	case TimeChallenge:
		s.TimeLimit = o.timeLimit
		s.Count = o.required
	case MinimizeStrokes:
		s.MaxStrokes = o.maxStrokes
		s.Count = o.required
	case MaximizeEnergy:
		s.Energy = o.requiredEnergy
	default:
		s.Count = o.required
	}
	return s
}
