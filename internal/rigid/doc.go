// Package rigid wraps the chipmunk2d port (github.com/jakecoffman/cp) behind
// an arena of bodies addressed by [Handle].
//
// Callers never hold backend pointers. A [Handle] carries a generation, so a
// handle that outlives its body resolves to nothing instead of aliasing a
// newer body that reused the slot.
//
// All quantities are SI: meters, kilograms, seconds. Converting to screen
// units is the caller's job.
//
// Steady forces set with [Space.SetSteadyForce] are applied in every
// sub-step until replaced, unlike cp's own accumulated forces which are
// cleared after each step.
package rigid
