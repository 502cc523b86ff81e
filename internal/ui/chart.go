package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mat-jhgfd/tui-monitor/internal/graph"
)

// brailleCanvas rasterizes onto braille cells: every terminal cell carries a
// 2x4 dot grid, so a w-by-h canvas has 2w x 4h addressable dots.
type brailleCanvas struct {
	w, h  int
	cells []rune
}

// dot bit per (row, col) inside one braille cell, per the Unicode layout.
var brailleDot = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

func newBrailleCanvas(w, h int) *brailleCanvas {
	return &brailleCanvas{w: w, h: h, cells: make([]rune, w*h)}
}

// setDot marks a dot at dot-grid coordinates, origin top-left. Out-of-range
// dots are dropped.
func (c *brailleCanvas) setDot(x, y int) {
	if x < 0 || y < 0 || x >= c.w*2 || y >= c.h*4 {
		return
	}
	c.cells[(y/4)*c.w+x/2] |= brailleDot[y%4][x%2]
}

// line draws a straight dot line between two dot-grid points (Bresenham).
func (c *brailleCanvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.setDot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// hrule draws a dotted horizontal rule across the canvas at the given dot
// row, used to mark locked bounds.
func (c *brailleCanvas) hrule(y int) {
	for x := 0; x < c.w*2; x += 2 {
		c.setDot(x, y)
	}
}

func (c *brailleCanvas) rows() []string {
	rows := make([]string, c.h)
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		b.Reset()
		for x := 0; x < c.w; x++ {
			r := c.cells[y*c.w+x]
			if r == 0 {
				b.WriteRune(' ')
			} else {
				b.WriteRune(brailleBase + r)
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// renderChart draws the live window of one channel into a width x height
// cell block: a y-label gutter on the left, braille plot on the right,
// dotted rules marking locked bounds. The vertical scale is the channel's
// current view bounds; the chart never rescales on its own.
func renderChart(snap graph.Snapshot, width, height int) string {
	if height < 1 {
		height = 1
	}

	lo, hi := snap.Bounds.Lo, snap.Bounds.Hi
	span := hi - lo
	if span < 1e-9 {
		span = 1e-9
	}

	labels := yLabels(lo, hi, height)
	gutter := 0
	for _, l := range labels {
		if len(l) > gutter {
			gutter = len(l)
		}
	}

	plotW := width - gutter - 1
	if plotW < 2 {
		plotW = 2
	}

	canvas := newBrailleCanvas(plotW, height)
	plotWindow(canvas, snap, lo, span)
	if snap.Locked {
		canvas.hrule(0)
		canvas.hrule(height*4 - 1)
	}

	chartStyle := lipgloss.NewStyle().Foreground(tagColor(snap.Color))
	rows := canvas.rows()
	lines := make([]string, height)
	for i, row := range rows {
		lines[i] = labelStyle.Render(fmt.Sprintf("%*s", gutter, labels[i])) + " " + chartStyle.Render(row)
	}
	return strings.Join(lines, "\n")
}

// plotWindow maps window points to dot coordinates and connects consecutive
// finite points. Non-finite samples break the line.
func plotWindow(canvas *brailleCanvas, snap graph.Snapshot, lo, span float64) {
	xFirst, xLast := snap.XFirst, snap.XLast
	xSpan := xLast - xFirst
	if xSpan < 1e-9 {
		xSpan = 1e-9
	}

	maxX := canvas.w*2 - 1
	maxY := canvas.h*4 - 1

	prevOK := false
	var prevX, prevY int
	for _, p := range snap.Window {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			prevOK = false
			continue
		}
		x := int(math.Round((p.X - xFirst) / xSpan * float64(maxX)))
		y := int(math.Round((1 - (p.Y-lo)/span) * float64(maxY)))
		if prevOK {
			canvas.line(prevX, prevY, x, y)
		} else {
			canvas.setDot(x, y)
		}
		prevX, prevY = x, y
		prevOK = true
	}
}

// yLabels returns one label per row; only the top, bottom, and quarter rows
// carry text so the gutter stays readable at any height.
func yLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	if height == 1 {
		labels[0] = formatLabel(hi)
		return labels
	}
	marks := []int{0, (height - 1) / 4, (height - 1) / 2, 3 * (height - 1) / 4, height - 1}
	span := hi - lo
	for _, r := range marks {
		v := hi - span*float64(r)/float64(height-1)
		labels[r] = formatLabel(v)
	}
	return labels
}

func formatLabel(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
