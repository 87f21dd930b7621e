// Package ordering precomputes the sort permutations of a book stack.
//
// An [Engine] is built once per data load. It computes every permutation
// named by [Keys] up front, so switching the active sort is a map lookup.
// Featured books never take part in a permutation; [Engine.Arrange] places
// them on top of the sorted stack.
//
// Text keys compare with a locale-aware collator from golang.org/x/text.
// Sorting is stable, and descending keys invert the comparison rather than the
// result, so books that compare equal keep their input order in both
// directions.
package ordering
