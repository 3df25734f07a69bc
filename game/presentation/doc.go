// Package presentation is the boundary between the game engine and anything that draws it.
//
// Renderers never touch engine state directly. They read a Snapshot, a value copy of
// the committed positions, balances and ownership, and drive token movement with a
// StepAnimator that walks each token forward one space at a time toward the position
// the engine already committed.
//
// Typical use from a control loop:
//
//	anim := presentation.NewStepAnimator(presentation.DefaultTicksPerSpace)
//	snap := presentation.Capture(state)
//	anim.Sync(snap)  // start walks for players whose committed position changed
//	anim.Tick()      // once per loop tick
//	frames := anim.Frames()
//
// Layout maps board positions to screen rectangles for a square board with four
// corners and six cells per side, clockwise from the bottom-left GO corner.
package presentation
