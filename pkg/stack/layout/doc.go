// Package layout computes the vertical arrangement of a book stack.
//
// # Overview
//
// [Build] walks a sequence of books bottom to top and assigns each one a
// resting position above the reference surface. Every book but the last lies
// flat, so its vertical extent is its thickness. The last book stands on its
// long edge, so its vertical extent is its width.
//
//	cursor := y0
//	for each book i:
//	    center[i] = cursor + thickness[i]/2
//	    cursor   += thickness[i] (+ gap)
//	top: center = cursor - thickness + width/2
//
// The result is a [Layout]: a slice of [Entry] values plus the final cursor
// ([Layout.StackTop]). Entries are values and are never modified after Build
// returns. Re-sorting or filtering always calls Build again.
//
// # Jitter
//
// Books are offset horizontally by a small seeded random amount so the stack
// does not look machine-aligned. Jitter only touches Position.X. The same seed
// and the same input always produce the same layout, and [WithoutJitter]
// disables it entirely.
package layout
