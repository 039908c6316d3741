package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/orbit-runner/engine"
)

// drawHUD renders the separator, the status line and the alert line below the playfield
func (r *Renderer) drawHUD(snap engine.Snapshot, ov Overlay, bg tcell.Style) {
	w, h := r.screen.Size()
	hudY := h - hudRows
	if hudY < 0 {
		return
	}

	sepStyle := bg.Foreground(RgbSeparator)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, hudY, '─', nil, sepStyle)
	}

	status := fmt.Sprintf("SCORE %d  TIME %.1fs  TIER %s  SPAWN %s  WAVE %s  ARC %.0f°",
		int(snap.Score), snap.Elapsed, snap.Tier, snap.Phase, snap.Wave, snap.FreeArc)
	r.drawText(0, hudY+1, w, status, bg.Foreground(RgbHUDText))

	col := 0
	alert := func(text string, color tcell.Color) {
		if col > 0 {
			col += r.drawText(col, hudY+2, w, "  ", bg)
		}
		col += r.drawText(col, hudY+2, w, text, bg.Foreground(color).Bold(true))
	}
	if snap.Danger {
		alert("DANGER", RgbHUDAlert)
	}
	if snap.BreathingRoom > 0 {
		alert(fmt.Sprintf("BREATHE %.1fs", snap.BreathingRoom), RgbHUDCalm)
	}
	if snap.Wave == "warning" || snap.Wave == "burst" {
		alert("WAVE INCOMING", RgbHUDAlert)
	}
	if ov.Paused {
		alert("PAUSED", RgbHUDText)
	}
	if ov.Muted {
		alert("MUTED", RgbHUDDim)
	}
	if ov.Autopilot {
		alert("AUTO", RgbHUDDim)
	}
	if ov.Message != "" {
		alert(ov.Message, RgbHUDDim)
	}

	if snap.Over {
		r.drawCentered(r.view.Y+r.view.Height/2, "GAME OVER", bg.Foreground(RgbHUDAlert).Bold(true))
		r.drawCentered(r.view.Y+r.view.Height/2+1, "r: revive   n: new run   q: quit", bg.Foreground(RgbHUDText))
	} else if ov.Paused {
		r.drawCentered(r.view.Y+r.view.Height/2, "PAUSED", bg.Foreground(RgbHUDText).Bold(true))
	}
}

// drawText writes text from x clipped at maxX and returns the columns used
func (r *Renderer) drawText(x, y, maxX int, text string, style tcell.Style) int {
	col := x
	for _, ch := range text {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		if col+cw > maxX {
			break
		}
		r.screen.SetContent(col, y, ch, nil, style)
		col += cw
	}
	return col - x
}

func (r *Renderer) drawCentered(y int, text string, style tcell.Style) {
	w, _ := r.screen.Size()
	tw := runewidth.StringWidth(text)
	x := (w - tw) / 2
	if x < 0 {
		x = 0
	}
	r.drawText(x, y, w, text, style)
}
