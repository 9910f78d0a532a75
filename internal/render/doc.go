// Package render models the terminal's character grid and produces the
// minimal control-sequence stream that brings the screen to a desired state.
//
// Two grids are kept: current (what is believed on screen) and desired (what
// the client last requested). Flush diffs them, batches contiguous changed
// cells on a row into single cursor moves, elides redundant style changes,
// and commits the diff to current only after the write succeeds.
package render
