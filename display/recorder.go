package display

import (
	"slices"
	"strings"
	"sync"
)

// maxRecordedFrames bounds memory when a Recorder runs headless for a long time.
const maxRecordedFrames = 32

// OpKind identifies a recorded draw operation.
type OpKind string

const (
	OpFill OpKind = "fill"
	OpText OpKind = "text"
)

// Op is a single recorded draw call.
type Op struct {
	Kind  OpKind
	Rect  Rect
	Color Color
	X, Y  int
	Text  string
	Style TextStyle
}

// Frame is the result of one Present call.
type Frame struct {
	Ops   []Op
	Lines []string
}

// Text returns the frame's rows joined by newlines.
func (f Frame) Text() string {
	return strings.Join(f.Lines, "\n")
}

// Texts returns the strings of all text operations in draw order.
func (f Frame) Texts() []string {
	var out []string
	for _, op := range f.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Recorder is an in-memory [Backend] that keeps the most recent frames.
//
// It is safe to inspect a Recorder from another goroutine while the render
// loop is drawing into it.
type Recorder struct {
	mu        sync.Mutex
	grid      *Grid
	ops       []Op
	frames    []Frame
	presents  int
	exitAfter int
	exit      bool
}

// NewRecorder creates a Recorder sized to the LED panel.
func NewRecorder() *Recorder {
	return &Recorder{grid: NewGrid(PanelWidth, PanelHeight)}
}

// ExitAfter makes Present report an exit request once n frames have been presented.
func (r *Recorder) ExitAfter(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exitAfter = n
}

// RequestExit makes the next Present report an exit request.
func (r *Recorder) RequestExit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exit = true
}

// Canvas returns the Recorder itself.
func (r *Recorder) Canvas() Canvas {
	return r
}

// Size returns the panel dimensions.
func (r *Recorder) Size() (int, int) {
	return r.grid.Size()
}

// Clear starts a new frame.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = r.ops[:0]
	r.grid.Clear()
}

// FillRect records and applies a fill.
func (r *Recorder) FillRect(rect Rect, c Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpFill, Rect: rect, Color: c})
	return r.grid.FillRect(rect, c)
}

// DrawText records and applies a text draw.
func (r *Recorder) DrawText(x, y int, text string, style TextStyle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpText, X: x, Y: y, Text: text, Style: style, Color: style.Color})
	return r.grid.DrawText(x, y, text, style)
}

// Present snapshots the current frame.
func (r *Recorder) Present() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames = append(r.frames, Frame{Ops: slices.Clone(r.ops), Lines: r.grid.Lines()})
	if len(r.frames) > maxRecordedFrames {
		r.frames = slices.Delete(r.frames, 0, len(r.frames)-maxRecordedFrames)
	}
	r.presents++

	if r.exitAfter > 0 && r.presents >= r.exitAfter {
		return true, nil
	}
	return r.exit, nil
}

// Paced reports false; callers must pace frames themselves.
func (r *Recorder) Paced() bool {
	return false
}

// Close is a no-op.
func (r *Recorder) Close() error {
	return nil
}

// Presents returns the number of frames presented so far.
func (r *Recorder) Presents() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presents
}

// Frames returns a copy of the retained frames, oldest first.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.frames)
}

// Last returns the most recently presented frame.
func (r *Recorder) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}
