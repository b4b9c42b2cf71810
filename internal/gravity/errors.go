package gravity

import "errors"

var (
	// ErrStrokeTooShort rejects swipes under MinSwipe or with fewer than two points.
	ErrStrokeTooShort = errors.New("gravity: stroke shorter than minimum swipe")

	ErrUnknownZone = errors.New("gravity: unknown zone type")
)
