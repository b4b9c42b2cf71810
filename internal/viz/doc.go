// Package viz draws gravpaint sessions in the terminal.
//
// Scenes are rendered onto a braille [Canvas] through a [Projection] that
// fits the level into the available dots. [Model] is the Bubble Tea program
// for playing a level; [RunInteractive] adds a level picker in front of it.
//
// # Key Bindings
//
//	Arrows - Paint a stroke in that direction through the screen center
//	Mouse  - Drag to paint a stroke
//	Space  - Pause/Resume
//	R      - Restart the level
//	N      - Next level after a completion
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
