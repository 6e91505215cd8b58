package display

import (
	"errors"
	"strings"
	"testing"
)

func TestGrid_Dimensions(t *testing.T) {
	g := NewGrid(PanelWidth, PanelHeight)

	cols, rows := g.Dimensions()
	if cols != 32 {
		t.Errorf("cols = %d, want 32", cols)
	}
	if rows != 6 {
		t.Errorf("rows = %d, want 6", rows)
	}

	w, h := g.Size()
	if w != PanelWidth || h != PanelHeight {
		t.Errorf("Size() = %dx%d, want %dx%d", w, h, PanelWidth, PanelHeight)
	}
}

func TestGrid_DrawText(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		text  string
		align Align
		want  string
	}{
		{name: "left at origin", x: 0, y: 0, text: "RD", want: "RD"},
		{name: "left offset", x: 8, y: 0, text: "RD", want: "  RD"},
		{name: "right aligned", x: 16, y: 0, text: "12", align: AlignRight, want: "  12"},
		{name: "centered", y: 0, text: "HI", align: AlignCenter, want: strings.Repeat(" ", 15) + "HI"},
		{name: "clipped at right edge", x: 120, y: 0, text: "ABCDEF", want: strings.Repeat(" ", 30) + "AB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(PanelWidth, PanelHeight)
			if err := g.DrawText(tt.x, tt.y, tt.text, TextStyle{Color: White, Align: tt.align}); err != nil {
				t.Fatalf("DrawText() error = %v", err)
			}
			if got := g.Lines()[0]; got != tt.want {
				t.Errorf("Lines()[0] = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGrid_DrawTextOutOfBounds(t *testing.T) {
	g := NewGrid(PanelWidth, PanelHeight)

	if err := g.DrawText(0, PanelHeight, "x", TextStyle{}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("DrawText() below canvas error = %v, want ErrOutOfBounds", err)
	}
	if err := g.DrawText(PanelWidth+4, 0, "x", TextStyle{}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("DrawText() right of canvas error = %v, want ErrOutOfBounds", err)
	}
}

func TestGrid_FillRect(t *testing.T) {
	g := NewGrid(PanelWidth, PanelHeight)
	red := RGB(255, 0, 0)

	if err := g.FillRect(Rect{X: 0, Y: 12, W: 2, H: 10}, red); err != nil {
		t.Fatalf("FillRect() error = %v", err)
	}

	if got := g.Background(0, 12); got != red {
		t.Errorf("Background(0,12) = %v, want %v", got, red)
	}
	if got := g.Background(4, 12); got != Black {
		t.Errorf("Background(4,12) = %v, want black", got)
	}
	if got := g.Background(0, 0); got != Black {
		t.Errorf("Background(0,0) = %v, want black", got)
	}

	if err := g.FillRect(Rect{X: -10, Y: -10, W: 5, H: 5}, red); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("FillRect() outside canvas error = %v, want ErrOutOfBounds", err)
	}
}

func TestGrid_Clear(t *testing.T) {
	g := NewGrid(PanelWidth, PanelHeight)
	_ = g.FillRect(Rect{W: PanelWidth, H: PanelHeight}, White)
	_ = g.DrawText(0, 0, "text", TextStyle{Color: Black})

	g.Clear()

	for i, line := range g.Lines() {
		if line != "" {
			t.Errorf("Lines()[%d] = %q after Clear, want empty", i, line)
		}
	}
	if got := g.Background(10, 10); got != Black {
		t.Errorf("Background after Clear = %v, want black", got)
	}
}

func TestRect_Intersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}

	got := a.Intersect(Rect{X: 5, Y: 5, W: 10, H: 10})
	want := Rect{X: 5, Y: 5, W: 5, H: 5}
	if got != want {
		t.Errorf("Intersect() = %+v, want %+v", got, want)
	}

	if !a.Intersect(Rect{X: 20, Y: 20, W: 1, H: 1}).Empty() {
		t.Error("disjoint rectangles should intersect to empty")
	}
}

func TestColor_Hex(t *testing.T) {
	if got := RGB(255, 85, 0).Hex(); got != "#ff5500" {
		t.Errorf("Hex() = %q, want %q", got, "#ff5500")
	}
}

func TestRenderGrid_ContainsText(t *testing.T) {
	g := NewGrid(PanelWidth, PanelHeight)
	_ = g.DrawText(0, 12, "SHADY GRV", TextStyle{Color: White})

	out := renderGrid(g)
	if !strings.Contains(out, "SHADY GRV") {
		t.Errorf("renderGrid() output missing drawn text:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 5 {
		t.Errorf("renderGrid() has %d newlines, want 5", got)
	}
}
