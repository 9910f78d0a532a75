// Package term owns the boundary to the physical terminal: the device
// abstraction over the tty file descriptor, raw-mode switching, and the
// controller that tracks which screen modes (alternate screen, mouse
// reporting, bracketed paste, focus reporting, cursor visibility) are
// active so every one of them is undone on shutdown.
package term
