package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/stack/focus"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

const (
	// DefaultScale is the number of pixels per meter.
	DefaultScale = 2000.0
	// DefaultMargin is the padding around the stack in pixels.
	DefaultMargin = 24.0
	// DefaultSlide is how far a focused book is drawn slid out, in meters.
	DefaultSlide = 0.14

	coverFontSize = 0.012
	lineHeight    = 1.25
)

const bookCSS = `
    .book { stroke: #222; stroke-width: 1; }
    .book.focused { stroke: #d4a017; stroke-width: 3; }
    .label { font-family: Georgia, serif; text-anchor: middle; dominant-baseline: central; pointer-events: none; }
    .ground { stroke: #888; stroke-width: 1; }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale      float64
	margin     float64
	slide      float64
	background string
	labels     bool
	offsets    map[string]focus.Offset
}

// WithScale sets the pixels drawn per meter. Non-positive values are ignored.
func WithScale(pxPerMeter float64) SVGOption {
	return func(r *svgRenderer) {
		if pxPerMeter > 0 {
			r.scale = pxPerMeter
		}
	}
}

// WithMargin sets the padding around the stack in pixels.
func WithMargin(px float64) SVGOption { return func(r *svgRenderer) { r.margin = max(px, 0) } }

// WithSlide sets how far a focused book is drawn slid out, in meters.
func WithSlide(meters float64) SVGOption { return func(r *svgRenderer) { r.slide = max(meters, 0) } }

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithoutLabels omits spine and cover text.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithOffsets applies focus offsets from [focus.Displace].
func WithOffsets(offsets []focus.Offset) SVGOption {
	return func(r *svgRenderer) { r.offsets, _ = indexOffsets(offsets) }
}

type rect struct {
	id, class   string
	color, text string
	x, y, w, h  float64
	cx, cy      float64
	lines       []string
	fontSize    float64
}

// RenderSVG draws a front elevation of the arrangement.
func RenderSVG(a ordering.Arrangement, opts ...SVGOption) []byte {
	r := svgRenderer{scale: DefaultScale, margin: DefaultMargin, slide: DefaultSlide, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	l := a.Layout
	width, height := r.frame(l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", bookCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	groundY := height - r.margin
	fmt.Fprintf(&buf, `  <line class="ground" x1="0" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", groundY, width, groundY)

	for i, e := range l.Entries {
		rc := r.place(e, a.Books[i], width, height)
		renderBook(&buf, rc)
		if r.labels {
			renderLabel(&buf, rc)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) frame(l layout.Layout) (w, h float64) {
	half := 0.0
	for _, e := range l.Entries {
		ext := faceWidth(e)/2 + math.Abs(e.Position.X)
		if r.offsets[e.ID].SlidOut {
			ext += r.slide
		}
		half = max(half, ext)
	}
	return 2*half*r.scale + 2*r.margin, l.StackTop*r.scale + 2*r.margin
}

func (r *svgRenderer) place(e layout.Entry, b book.Book, width, height float64) rect {
	off := r.offsets[e.ID]
	x := e.Position.X
	class := "book"
	if off.SlidOut {
		x += r.slide
		class += " focused"
	}
	y := e.Position.Y + off.DY

	w, h := faceWidth(e)*r.scale, e.Height*r.scale
	cx := width/2 + x*r.scale
	cy := height - r.margin - y*r.scale

	rc := rect{
		id:    e.ID,
		class: class,
		color: b.Color,
		text:  textColor(b.Color),
		x:     cx - w/2, y: cy - h/2,
		w: w, h: h,
		cx: cx, cy: cy,
	}
	if e.Standing {
		rc.lines = book.WrapTitle(b.Title, book.DefaultWrapWidth)
		rc.fontSize = coverFontSize * r.scale
	} else {
		rc.lines = []string{b.Title}
		rc.fontSize = book.SpineFontSize(b.Title) * r.scale
	}
	return rc
}

// faceWidth is the horizontal extent of an entry seen from the front. Lying
// books show their spine; the standing book shows its cover.
func faceWidth(e layout.Entry) float64 {
	if e.Standing {
		return e.Size.Depth
	}
	return e.Size.Width
}

func renderBook(buf *bytes.Buffer, rc rect) {
	fmt.Fprintf(buf, `  <rect id="book-%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		escapeXML(rc.id), rc.class, rc.x, rc.y, rc.w, rc.h, escapeXML(rc.color))
}

func renderLabel(buf *bytes.Buffer, rc rect) {
	if len(rc.lines) == 0 {
		return
	}
	step := rc.fontSize * lineHeight
	first := rc.cy - step*float64(len(rc.lines)-1)/2
	fmt.Fprintf(buf, `  <text class="label" data-book="%s" font-size="%.1f" fill="%s">`,
		escapeXML(rc.id), rc.fontSize, rc.text)
	for i, line := range rc.lines {
		fmt.Fprintf(buf, `<tspan x="%.2f" y="%.2f">%s</tspan>`, rc.cx, first+step*float64(i), escapeXML(line))
	}
	buf.WriteString("</text>\n")
}

// textColor picks a dark or light label for a #RRGGBB background.
func textColor(hex string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return "#111111"
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return "#111111"
	}
	r, g, b := float64(v>>16&0xff), float64(v>>8&0xff), float64(v&0xff)
	if 0.299*r+0.587*g+0.114*b > 150 {
		return "#111111"
	}
	return "#f5f5f5"
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
