// Package viz draws orbits and potentials in the terminal.
//
//   - [Canvas]: braille pixel buffer with per-cell body colouring
//   - [RenderOrbits]: static x-y plot of a flattened trajectory
//   - [RenderPotential]: heatmap of the rotating-frame effective potential
//   - [LiveModel]: Bubble Tea model that steps a run and animates it
//   - [App]: preset browser that launches a LiveModel
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Restart from the initial state
//	+/-   - Double/halve steps per frame
//	Z/X   - Zoom in/out
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
