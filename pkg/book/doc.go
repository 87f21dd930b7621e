// Package book defines the book model shown in the stack and validates the
// static book list it is loaded from.
//
// # Overview
//
// A [Book] is one physical item in the stack. Its [Size] category selects a
// fixed (width, thickness, depth) triple in meters via [Size.Dimensions]; every
// other field is display metadata that the layout code never reads.
//
// # Validation
//
// [Parse], [ReadJSON] and [ImportJSON] accept a JSON array of book objects and
// validate every element against the schema:
//
//   - title, firstName, surname, description and genre must be non-empty
//   - size must be one of thin, medium, thick, veryThick, extraThick
//   - color must match #RRGGBB
//   - price must be a positive JSON number
//   - publishDate must match YYYY-MM-DD
//   - isFeatured must be present
//
// Validation is all-or-nothing. On failure the caller receives a
// [errors.ValidationError] listing every violation and no books at all, so a
// caller can never render a partially valid stack.
//
// # Identifiers
//
// Books may carry an explicit "id". When it is missing a stable UUID is derived
// from the title and author names, so the same data file always yields the
// same identifiers. Duplicate identifiers are rejected.
//
// # Typography
//
// [SpineFontSize] and [WrapTitle] compute the text metrics used to label a
// book's spine and cover.
package book
