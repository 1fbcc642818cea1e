// Package viz renders sampled diagrams in the terminal.
//
//   - [Canvas]: braille sub-pixel canvas for dense scatter plots
//   - [RenderDiagram]: bifurcation point set as a framed (r, x) scatter
//
// The interactive explorer in internal/tui composes these into a live
// Bubble Tea view; the CLI prints them directly.
package viz
