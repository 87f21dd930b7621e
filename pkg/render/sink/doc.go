// Package sink renders an arranged stack into output formats.
//
// # Overview
//
// A "sink" turns an [ordering.Arrangement] into bytes. Two renderers exist:
//
//   - JSON: the arrangement with per-entry geometry, for clients that draw
//     the stack themselves
//   - SVG: a front elevation of the stack with spine labels
//
// Both accept the visual offsets produced by [focus.Displace] so a focused
// book can be drawn slid out with the books above it lowered into the gap.
//
// # JSON Output
//
//	data, err := sink.RenderJSON(arr, sink.WithJSONOffsets(offsets))
//
// Each entry carries its position, its physical extent, the book's display
// fields and the focus treatment. [WithJSONBooks] adds the full book records.
//
// # SVG Output
//
//	svg := sink.RenderSVG(arr,
//	    sink.WithScale(2500),
//	    sink.WithOffsets(offsets),
//	)
//
// Lying books are drawn spine-on with a single label sized by
// [book.SpineFontSize]. The top book stands on its long edge and shows its
// cover with the title wrapped by [book.WrapTitle].
//
// # Concurrency
//
// Renderers do not modify their input and are safe to call concurrently.
package sink
