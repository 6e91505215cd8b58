package render

import (
	"strings"
	"unicode/utf8"

	"github.com/jpalmerr/metrosign/display"
	"github.com/jpalmerr/metrosign/internal/board"
)

// Board layout in pixels. Text positions assume the 4px-wide font.
const (
	charWidth = 4
	rowHeight = 12

	markerX      = 0
	markerWidth  = 4
	markerInset  = 1
	lineIDX      = 8
	labelX       = 20
	labelChars   = 13
	leaveByRight = 100
	leaveByChars = 4
	etaChars     = 3
)

const (
	splashTitle    = "WMATA Metrorail"
	splashSubtitle = "Arrival Sign"
	alertTitle     = "SERVICE ALERT"
	alertLines     = 4
)

var (
	headerColor = display.Gray
	alertRed    = display.RGB(255, 0, 0)
	alertAmber  = display.RGB(255, 170, 0)
)

func drawBoard(c display.Canvas, s board.ArrivalState) error {
	width, _ := c.Size()
	header := display.TextStyle{Color: headerColor}
	headerRight := display.TextStyle{Color: headerColor, Align: display.AlignRight}

	for _, t := range []struct {
		x     int
		text  string
		style display.TextStyle
	}{
		{lineIDX, "LN", header},
		{labelX, "DEST", header},
		{leaveByRight, "LV", headerRight},
		{width, "MIN", headerRight},
	} {
		if err := c.DrawText(t.x, 0, t.text, t.style); err != nil {
			return err
		}
	}

	for i, e := range s.Visible() {
		if err := drawEntry(c, width, (i+1)*rowHeight, e); err != nil {
			return err
		}
	}
	return nil
}

func drawEntry(c display.Canvas, width, y int, e board.DisplayEntry) error {
	marker := display.Rect{X: markerX, Y: y + markerInset, W: markerWidth, H: rowHeight - 2*markerInset}
	if err := c.FillRect(marker, e.LineColor); err != nil {
		return err
	}

	cols := []struct {
		x     int
		text  string
		style display.TextStyle
	}{
		{lineIDX, fit(e.LineID, 2), display.TextStyle{Color: e.LineColor, Bold: true}},
		{labelX, fit(e.Label, labelChars), display.TextStyle{Color: display.White}},
		{leaveByRight, fit(e.LeaveBy, leaveByChars), display.TextStyle{Color: display.White, Align: display.AlignRight}},
		{width, fit(e.ETA, etaChars), display.TextStyle{Color: display.White, Align: display.AlignRight}},
	}
	for _, col := range cols {
		// blank columns draw nothing
		if col.text == "" {
			continue
		}
		if err := c.DrawText(col.x, y, col.text, col.style); err != nil {
			return err
		}
	}
	return nil
}

func drawAlert(c display.Canvas, s board.AlertState) error {
	width, height := c.Size()

	switch s.Phase {
	case board.PhaseIntroA:
		if err := c.FillRect(display.Rect{W: width, H: height}, alertRed); err != nil {
			return err
		}
		return c.DrawText(0, 2*rowHeight, alertTitle, display.TextStyle{Color: display.White, Bold: true, Align: display.AlignCenter})
	case board.PhaseIntroB:
		return c.DrawText(0, 2*rowHeight, alertTitle, display.TextStyle{Color: alertRed, Bold: true, Align: display.AlignCenter})
	}

	title := display.TextStyle{Color: alertRed, Bold: true, Align: display.AlignCenter}
	if s.Phase == board.PhaseMessageA {
		if err := c.FillRect(display.Rect{W: width, H: rowHeight}, alertRed); err != nil {
			return err
		}
		title.Color = display.White
	}
	if err := c.DrawText(0, 0, alertTitle, title); err != nil {
		return err
	}

	for i, line := range page(wrap(s.Message, width/charWidth), alertLines, int(s.ScrollOffset)) {
		if err := c.DrawText(0, (i+1)*rowHeight, line, display.TextStyle{Color: alertAmber}); err != nil {
			return err
		}
	}
	return nil
}

func drawSplash(c display.Canvas) error {
	width, _ := c.Size()
	center := display.TextStyle{Color: display.White, Bold: true, Align: display.AlignCenter}

	if err := c.DrawText(0, rowHeight, splashTitle, center); err != nil {
		return err
	}
	center.Bold = false
	if err := c.DrawText(0, 2*rowHeight, splashSubtitle, center); err != nil {
		return err
	}

	stripes := []string{"RD", "OR", "YL", "GR", "BL"}
	stripe := width / len(stripes)
	for i, line := range stripes {
		r := display.Rect{X: i * stripe, Y: 4 * rowHeight, W: stripe, H: rowHeight / 2}
		if err := c.FillRect(r, board.LineColor(line)); err != nil {
			return err
		}
	}
	return nil
}

// fit truncates s to at most n runes.
func fit(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// wrap breaks text into lines of at most width runes, splitting on spaces
// and hard-breaking words longer than a line.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > width {
			flush()
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		if len(runes) == 0 {
			continue
		}
		if curLen > 0 && curLen+1+len(runes) > width {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(string(runes))
		curLen += len(runes)
	}
	flush()
	return lines
}

// page returns the size-line window for scroll position offset, cycling
// when the text has fewer pages than scroll positions.
func page(lines []string, size, offset int) []string {
	if len(lines) == 0 || size <= 0 {
		return nil
	}
	pages := (len(lines) + size - 1) / size
	start := (offset % pages) * size
	end := min(start+size, len(lines))
	return lines[start:end]
}
