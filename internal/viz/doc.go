// Package viz hosts the arena in a terminal.
//
// The package implements a live view using the Bubble Tea framework:
//
//   - [Model]: steps a [scene.Scene] at the draw rate and renders its sprites
//   - [Canvas]: braille-based pixel canvas, 2x4 dots per cell
//   - [RunInteractive]: preset picker in front of the live view
//
// The terminal stands in for the device. Mouse presses, drags and releases
// become touches, and the arrow keys tilt the device so gravity follows.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	Arrows - Tilt toward an edge
//	0      - Level the device
//	O      - Rotate 90°
//	E      - Export the frame as SVG
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
