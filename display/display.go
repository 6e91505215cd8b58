// Package display provides the draw-target abstraction the sign renders onto.
//
// A [Backend] owns a [Canvas] sized to the LED panel (128x64 pixels). The
// render loop clears the canvas, draws filled rectangles and text onto it,
// and then calls [Backend.Present] to push the frame out. Two backends ship
// with the module:
//
//   - [Recorder]: keeps the drawn operations in memory (tests, headless runs)
//   - [Terminal]: a simulator that paints the panel into a terminal window
//
// Hardware panels implement the same interface outside this module.
package display

import (
	"errors"
	"fmt"
)

const (
	// PanelWidth is the width of the LED panel in pixels (two chained 64x32 modules).
	PanelWidth = 64 * 2

	// PanelHeight is the height of the LED panel in pixels.
	PanelHeight = 32 * 2
)

// ErrOutOfBounds is returned when a draw call falls entirely outside the canvas.
var ErrOutOfBounds = errors.New("draw call outside canvas bounds")

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGB builds a [Color] from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex returns the color in #rrggbb form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Common colors.
var (
	Black = RGB(0, 0, 0)
	White = RGB(255, 255, 255)
	Gray  = RGB(120, 120, 120)
)

// Align controls horizontal placement of text relative to its x coordinate.
type Align int

const (
	// AlignLeft places the first character at x.
	AlignLeft Align = iota
	// AlignCenter centers the text on the full canvas width; x is ignored.
	AlignCenter
	// AlignRight ends the text at x.
	AlignRight
)

// TextStyle describes how a string is drawn.
//
// Styles are plain values constructed per draw call; there is no shared
// style state between calls.
type TextStyle struct {
	Color Color
	Bold  bool
	Align Align
}

// Rect is an axis-aligned rectangle in pixel coordinates.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Canvas is the draw target for a single frame.
//
// Coordinates are in pixels with the origin at the top-left corner. Text is
// positioned by the top-left corner of its bounding box.
type Canvas interface {
	// Size returns the canvas dimensions in pixels.
	Size() (width, height int)

	// Clear fills the whole canvas with black.
	Clear()

	// FillRect fills r with the given color.
	FillRect(r Rect, c Color) error

	// DrawText draws a single line of text.
	DrawText(x, y int, text string, style TextStyle) error
}

// Backend drives a physical or simulated panel.
type Backend interface {
	// Canvas returns the canvas for the next frame.
	Canvas() Canvas

	// Present pushes the current canvas to the panel and reports whether
	// the backend has asked the program to exit.
	Present() (exit bool, err error)

	// Paced reports whether Present blocks until the panel's vertical sync.
	// Unpaced backends need the caller to sleep between frames.
	Paced() bool

	// Close releases the backend.
	Close() error
}
