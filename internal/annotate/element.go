// Package annotate maintains the ordered list of draw elements for a capture
// session and renders them onto the frozen frame. Element points are stored
// in canvas space exactly as the user drew them; the canvas to device
// transform happens at render time so the same list can be re-rendered after
// a scale change without touching input history.
package annotate

import (
	"image/color"

	"github.com/example/glintshot/internal/geom"
)

// PenStyle selects the taper profile for freehand strokes.
type PenStyle int

const (
	PenNormal PenStyle = iota
	PenBrush
	PenFountain
	PenPencil
	PenMarker
)

func (s PenStyle) String() string {
	switch s {
	case PenBrush:
		return "brush"
	case PenFountain:
		return "fountain"
	case PenPencil:
		return "pencil"
	case PenMarker:
		return "marker"
	default:
		return "normal"
	}
}

// ParsePenStyle resolves a configuration name to a pen style. Unknown names
// fall back to the normal pen.
func ParsePenStyle(name string) PenStyle {
	switch name {
	case "brush":
		return PenBrush
	case "fountain":
		return PenFountain
	case "pencil":
		return PenPencil
	case "marker":
		return PenMarker
	default:
		return PenNormal
	}
}

// Element is one annotation. The concrete types form a closed set and the
// engine dispatches on them with an exhaustive type switch.
type Element interface {
	element()
}

// Pencil is a freehand stroke.
type Pencil struct {
	Points    []geom.Point
	Color     color.RGBA
	LineWidth float64
	Style     PenStyle
	// Pressure carries one sample per point in [0,1]. Empty means a
	// constant medium pressure.
	Pressure []float64
	// Taper narrows the stroke near its ends using the style profile.
	Taper bool
}

// Mosaic redacts the pixels along a stroke path with flat grid cells sampled
// from the untouched snapshot.
type Mosaic struct {
	Points    []geom.Point
	BlockSize int
}

// Text is a single-anchor text annotation.
type Text struct {
	At         geom.Point
	Content    string
	FontSize   float64
	FontFamily string
	Color      color.RGBA
}

// ShapeStyle is shared by Rectangle and Ellipse.
type ShapeStyle struct {
	StrokeColor  color.RGBA
	StrokeWidth  float64
	FillColor    color.RGBA
	CornerRadius float64
	Dash         []float64
	// Sequence renders a numbered pill label next to the shape when > 0.
	Sequence int
}

// Rectangle is a two-anchor box annotation.
type Rectangle struct {
	A, B geom.Point
	ShapeStyle
}

// Ellipse is a two-anchor ellipse inscribed in the box A..B.
type Ellipse struct {
	A, B geom.Point
	ShapeStyle
}

func (Pencil) element()    {}
func (Mosaic) element()    {}
func (Text) element()      {}
func (Rectangle) element() {}
func (Ellipse) element()   {}
