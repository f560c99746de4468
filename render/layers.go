package render

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// fieldLayer draws the border around the playfield and the start marker
type fieldLayer struct{}

func (fieldLayer) Render(ctx Context, buf *Buffer) {
	v := ctx.View
	style := baseStyle.Foreground(RgbBorder)
	left, right := v.OffsetX-1, v.OffsetX+v.Cols
	top, bottom := v.OffsetY-1, v.OffsetY+v.Rows

	for x := left + 1; x < right; x++ {
		buf.Set(x, top, '─', style)
		buf.Set(x, bottom, '─', style)
	}
	for y := top + 1; y < bottom; y++ {
		buf.Set(left, y, '│', style)
		buf.Set(right, y, '│', style)
	}
	buf.Set(left, top, '┌', style)
	buf.Set(right, top, '┐', style)
	buf.Set(left, bottom, '└', style)
	buf.Set(right, bottom, '┘', style)

	b := ctx.Snapshot.Ball
	sx, sy := v.ToCell(b.StartX, b.StartY)
	if v.Contains(sx, sy) {
		buf.Set(sx, sy, '×', baseStyle.Foreground(RgbStart))
	}
}

// wallLayer fills every cell whose centre lies inside a wall, at least one per wall
type wallLayer struct{}

func (wallLayer) Render(ctx Context, buf *Buffer) {
	v := ctx.View
	style := baseStyle.Foreground(RgbWall)
	for _, w := range ctx.Snapshot.Walls {
		r := w.Bounds()
		c0, r0 := v.ToCell(r.Left, r.Top)
		c1, r1 := v.ToCell(r.Right, r.Bottom)
		drawn := false
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if !v.Contains(col, row) {
					continue
				}
				x, y := v.CellCenter(col, row)
				if x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom {
					buf.Set(col, row, '█', style)
					drawn = true
				}
			}
		}
		if !drawn {
			cx, cy := v.ToCell(w.X, w.Y)
			if v.Contains(cx, cy) {
				buf.Set(cx, cy, '█', style)
			}
		}
	}
}

// discLayer draws a filled circle with a distinct centre glyph
type discLayer struct {
	fill, center rune
	fillStyle    tcell.Style
	centerStyle  tcell.Style
	pick         func(Context) (x, y, r float64)
}

func (d discLayer) Render(ctx Context, buf *Buffer) {
	v := ctx.View
	x, y, radius := d.pick(ctx)
	c0, r0 := v.ToCell(x-radius, y-radius)
	c1, r1 := v.ToCell(x+radius, y+radius)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if !v.Contains(col, row) {
				continue
			}
			px, py := v.CellCenter(col, row)
			if math.Hypot(px-x, py-y) < radius {
				buf.Set(col, row, d.fill, d.fillStyle)
			}
		}
	}
	cx, cy := v.ToCell(x, y)
	if v.Contains(cx, cy) {
		buf.Set(cx, cy, d.center, d.centerStyle)
	}
}

func newGoalLayer() discLayer {
	return discLayer{
		fill:        '░',
		center:      '◎',
		fillStyle:   baseStyle.Foreground(RgbGoal),
		centerStyle: baseStyle.Foreground(RgbGoalCenter).Bold(true),
		pick: func(ctx Context) (float64, float64, float64) {
			g := ctx.Snapshot.Goal
			return g.X, g.Y, g.Radius
		},
	}
}

func newBallLayer() discLayer {
	return discLayer{
		fill:        '▓',
		center:      '●',
		fillStyle:   baseStyle.Foreground(RgbBall),
		centerStyle: baseStyle.Foreground(RgbBall).Bold(true),
		pick: func(ctx Context) (float64, float64, float64) {
			b := ctx.Snapshot.Ball
			return b.X, b.Y, b.Radius
		},
	}
}

// hudLayer draws the score and phase above the field, status and tilt below
type hudLayer struct{}

func (hudLayer) Render(ctx Context, buf *Buffer) {
	snap := ctx.Snapshot
	bar := tcell.StyleDefault.Background(RgbStatusBar).Foreground(RgbStatusText)

	x := buf.SetString(0, 0, " "+ctx.Text.ScoreText+" ", tcell.StyleDefault.Background(RgbScoreBg).Foreground(RgbStatusText))
	x += 1 + buf.SetString(x+1, 0, " "+snap.Phase.String()+" ", tcell.StyleDefault.Background(RgbPhaseBg).Foreground(RgbStatusText))

	if w := runewidth.StringWidth(helpText); x+2+w <= ctx.Width {
		buf.SetString(ctx.Width-w, 0, helpText, baseStyle.Foreground(RgbDebugText))
	}

	bottom := ctx.Height - 1
	if ctx.Text.Status != "" {
		buf.SetString(0, bottom, " "+ctx.Text.Status+" ", bar)
	}
	tiltText := fmt.Sprintf("β %+6.1f  γ %+6.1f", snap.Tilt.Beta, snap.Tilt.Gamma)
	buf.SetString(ctx.Width-runewidth.StringWidth(tiltText), bottom, tiltText, baseStyle)
}

const helpText = "arrows tilt  space level  r new level  p pause  q quit"

// messageLayer centres the board message over the playfield
type messageLayer struct{}

func (messageLayer) Render(ctx Context, buf *Buffer) {
	text := ctx.Text.Message
	if ctx.Paused {
		text = "PAUSED"
	}
	if text == "" {
		return
	}
	v := ctx.View
	w := runewidth.StringWidth(text)
	x := v.OffsetX + (v.Cols-w)/2
	if x < 0 {
		x = 0
	}
	y := v.OffsetY + v.Rows/2
	buf.SetString(x, y, text, baseStyle.Foreground(RgbMessage).Bold(true))
}

// debugLayer lists the metrics registry inside the top-left of the field
type debugLayer struct {
	visible atomic.Bool
}

func (d *debugLayer) IsVisible() bool {
	return d.visible.Load()
}

func (d *debugLayer) Render(ctx Context, buf *Buffer) {
	v := ctx.View
	style := baseStyle.Foreground(RgbDebugText)
	b := ctx.Snapshot.Ball
	lines := []string{
		fmt.Sprintf("ball  %6.1f %6.1f", b.X, b.Y),
		fmt.Sprintf("vel   %6.2f %6.2f", b.VX, b.VY),
		fmt.Sprintf("goal  %6.1f %6.1f", ctx.Snapshot.Goal.X, ctx.Snapshot.Goal.Y),
		fmt.Sprintf("phase %s %.1fs", ctx.Snapshot.Phase, ctx.Snapshot.PhaseAge.Seconds()),
	}
	for _, l := range ctx.Metrics {
		lines = append(lines, l.Key+" "+l.Value)
	}
	for i, l := range lines {
		row := v.OffsetY + i
		if row >= v.OffsetY+v.Rows {
			break
		}
		buf.SetString(v.OffsetX, row, l, style)
	}
	if ctx.Snapshot.Exhausted {
		buf.SetString(v.OffsetX, v.OffsetY+v.Rows-1, "level constraints relaxed", baseStyle.Foreground(RgbExhausted))
	}
}
