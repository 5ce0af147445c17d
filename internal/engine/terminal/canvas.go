package terminal

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/geo"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellPin
	cellTooltip
	cellSelected
	cellPopup
)

type hitKind uint8

const (
	hitTooltip hitKind = iota + 1
	hitPopup
)

// hitBox is a clickable horizontal run of cells on one row, x1 exclusive
type hitBox struct {
	x0, x1, y int
	kind      hitKind
	markerID  string
}

func (h hitBox) contains(x, y int) bool {
	return y == h.y && x >= h.x0 && x < h.x1
}

// frame is one laid-out map: the cell grid plus the clickable regions, topmost last
type frame struct {
	w, h  int
	runes [][]rune
	kinds [][]cellKind
	hits  []hitBox
}

func newFrame(w, h int) *frame {
	f := &frame{w: w, h: h, runes: make([][]rune, h), kinds: make([][]cellKind, h)}
	for y := range f.runes {
		f.runes[y] = []rune(strings.Repeat(" ", w))
		f.kinds[y] = make([]cellKind, w)
	}
	return f
}

// put writes s from (x, y), clipping at the grid edge, and returns the columns written
func (f *frame) put(x, y int, s string, kind cellKind) (x0, x1 int) {
	if y < 0 || y >= f.h {
		return x, x
	}
	x0 = max(x, 0)
	col := x
	for _, r := range s {
		if col >= f.w {
			break
		}
		if col >= 0 {
			f.runes[y][col] = r
			f.kinds[y][col] = kind
		}
		col++
	}
	return x0, max(col, x0)
}

// hit returns the topmost clickable region at (x, y)
func (f *frame) hit(x, y int) (hitBox, bool) {
	for i := len(f.hits) - 1; i >= 0; i-- {
		if f.hits[i].contains(x, y) {
			return f.hits[i], true
		}
	}
	return hitBox{}, false
}

// layout draws the markers visible in b onto a w×h grid. Slots whose element has not
// been pulled yet are not drawn.
func layout(drawn []engine.DrawnMarker, popup string, b geo.Bounds, w, h int) *frame {
	f := newFrame(w, h)

	var popupMarker *engine.DrawnMarker
	var popupX, popupY int

	for i := range drawn {
		d := &drawn[i]
		x, y, ok := Project(b, d.Marker.Position(), w, h)
		if !ok {
			continue
		}
		if d.Pin != nil {
			f.put(x, y, d.Pin.Label(), cellPin)
		}
		if d.Tooltip != nil {
			kind := cellTooltip
			if d.Marker.ID == popup {
				kind = cellSelected
			}
			x0, x1 := f.put(x+1, y, "["+d.Tooltip.Label()+"]", kind)
			if x1 > x0 {
				f.hits = append(f.hits, hitBox{x0: x0, x1: x1, y: y, kind: hitTooltip, markerID: d.Marker.ID})
			}
		}
		if d.Marker.ID == popup && d.Popup != nil {
			popupMarker, popupX, popupY = d, x, y
		}
	}

	if popupMarker != nil {
		drawPopup(f, popupMarker, popupX, popupY)
	}
	return f
}

func drawPopup(f *frame, d *engine.DrawnMarker, x, y int) {
	text := d.Popup.Label()
	width := utf8.RuneCountInString(text) + 4
	lines := []string{
		"╭" + strings.Repeat("─", width-2) + "╮",
		"│ " + text + " │",
		"╰" + strings.Repeat("─", width-2) + "╯",
	}

	top := y - len(lines)
	if top < 0 {
		top = y + 1
	}
	left := min(x, f.w-width)
	left = max(left, 0)

	for i, line := range lines {
		x0, x1 := f.put(left, top+i, line, cellPopup)
		if x1 > x0 {
			f.hits = append(f.hits, hitBox{x0: x0, x1: x1, y: top + i, kind: hitPopup, markerID: d.Marker.ID})
		}
	}
}

// render converts the grid to styled text, one line per row
func (f *frame) render() string {
	rows := make([]string, f.h)
	for y := 0; y < f.h; y++ {
		var sb strings.Builder
		start := 0
		for x := 1; x <= f.w; x++ {
			if x < f.w && f.kinds[y][x] == f.kinds[y][start] {
				continue
			}
			sb.WriteString(styleFor(f.kinds[y][start]).Render(string(f.runes[y][start:x])))
			start = x
		}
		rows[y] = sb.String()
	}
	return strings.Join(rows, "\n")
}

// plain returns the grid without styling
func (f *frame) plain() string {
	rows := make([]string, f.h)
	for y := range f.runes {
		rows[y] = string(f.runes[y])
	}
	return strings.Join(rows, "\n")
}

func styleFor(k cellKind) lipgloss.Style {
	switch k {
	case cellPin:
		return pinStyle
	case cellTooltip:
		return tooltipStyle
	case cellSelected:
		return selectedStyle
	case cellPopup:
		return popupStyle
	default:
		return mapStyle
	}
}
