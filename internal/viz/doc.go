// Package viz renders runs in the terminal.
//
//   - [Summary]: a lipgloss panel with parameters, outcome and metrics
//   - [PlotHeights]: an asciigraph chart of ball and tray heights
//   - [Replay]: a Bubble Tea program stepping through a stored trajectory
//     on a braille [Canvas]
//
// # Replay keys
//
//	Space - Pause/Resume
//	←/→   - Step by the current speed
//	[ ]   - Jump to the previous/next collision
//	+/-   - Double/halve the speed
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
