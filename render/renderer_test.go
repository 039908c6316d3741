package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/orbit-runner/engine"
	"github.com/lixenwraith/orbit-runner/vmath"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(ch)
	}
	return b.String()
}

func baseSnapshot() engine.Snapshot {
	return engine.Snapshot{
		OrbitRadius: 5,
		Player:      engine.PlayerView{Position: vmath.Vec2{X: 5}, Radius: 0.5},
		Tier:        "easy",
		Phase:       "running",
		Wave:        "idle",
		FreeArc:     360,
	}
}

func TestViewportFitsAndFlips(t *testing.T) {
	v := NewViewport(0, 0, 80, 21, 18, 12)
	assert.InDelta(t, 1.75, v.ColsPerUnit, 1e-9, "height bound")

	sx, sy, ok := v.WorldToScreen(vmath.Vec2{})
	assert.True(t, ok)
	assert.Equal(t, 40, sx)
	assert.Equal(t, 10, sy)

	_, up, _ := v.WorldToScreen(vmath.Vec2{Y: 4})
	_, down, _ := v.WorldToScreen(vmath.Vec2{Y: -4})
	assert.Equal(t, 7, up)
	assert.Equal(t, 14, down)

	_, _, ok = v.WorldToScreen(vmath.Vec2{X: 100})
	assert.False(t, ok)

	assert.Zero(t, NewViewport(0, 0, 0, 10, 18, 12).ColsPerUnit)
}

func TestRenderFramePlayerAndObstacles(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen, 18, 12)

	snap := baseSnapshot()
	snap.Obstacles = []engine.ObstacleView{
		{Family: "orb", Position: vmath.Vec2{X: -5}, Radius: 0.3},
		{Family: "barrier", Position: vmath.Vec2{Y: 5}, Radius: 0.2, Length: 4},
		{Family: "shard", Position: vmath.Vec2{X: 100}, Radius: 0.2},
		{Family: "orb", Position: vmath.Vec2{Y: -6}, Radius: 0.3, Forced: true},
	}
	r.RenderFrame(snap, Overlay{})

	ch, _, style, _ := screen.GetContent(48, 10)
	assert.Equal(t, '@', ch)
	fg, _, _ := style.Decompose()
	assert.Equal(t, RgbPlayer, fg)

	ch, _, _, _ = screen.GetContent(31, 10)
	assert.Equal(t, 'O', ch)

	ch, _, _, _ = screen.GetContent(40, 6)
	assert.Equal(t, '=', ch)

	ch, _, style, _ = screen.GetContent(40, 15)
	assert.Equal(t, 'O', ch)
	fg, _, _ = style.Decompose()
	assert.Equal(t, RgbForced, fg)
}

func TestRenderFrameHUD(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen, 18, 12)

	snap := baseSnapshot()
	snap.Score = 123.7
	snap.Danger = true
	snap.BreathingRoom = 0.5
	r.RenderFrame(snap, Overlay{Muted: true})

	assert.Equal(t, strings.Repeat("─", 80), rowText(screen, 21))
	status := rowText(screen, 22)
	assert.True(t, strings.HasPrefix(status, "SCORE 123"), status)
	assert.Contains(t, status, "TIER easy")
	assert.Contains(t, status, "SPAWN running")

	alerts := rowText(screen, 23)
	assert.Contains(t, alerts, "DANGER")
	assert.Contains(t, alerts, "BREATHE 0.5s")
	assert.Contains(t, alerts, "MUTED")
	assert.NotContains(t, alerts, "PAUSED")
}

func TestRenderFrameGameOver(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen, 18, 12)

	snap := baseSnapshot()
	snap.Over = true
	r.RenderFrame(snap, Overlay{})

	ch, _, style, _ := screen.GetContent(48, 10)
	assert.Equal(t, 'X', ch)
	fg, _, _ := style.Decompose()
	assert.Equal(t, RgbPlayerDead, fg)
	assert.Contains(t, rowText(screen, 10), "GAME OVER")
	assert.Contains(t, rowText(screen, 11), "r: revive")
}

func TestDrawTextClips(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen, 18, 12)
	screen.Fill(' ', tcell.StyleDefault)
	n := r.drawText(75, 0, 80, "0123456789", tcell.StyleDefault)
	assert.Equal(t, 5, n)
	assert.Equal(t, "01234", rowText(screen, 0)[75:])
}

func TestOrbitRingMarksBlockedCells(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen, 18, 12)

	snap := baseSnapshot()
	snap.Player.Position = vmath.Vec2{X: -5}
	// Gate posts sit at (-3, 5) and (3, 5); the opening over bearing 90 stays a ring cell
	snap.Obstacles = []engine.ObstacleView{{Family: "gate", Position: vmath.Vec2{Y: 5}, Radius: 0.1, Length: 6, Blocking: true}}
	r.RenderFrame(snap, Overlay{})

	sx, sy, _ := r.Viewport().WorldToScreen(vmath.PointOnCircle(90, 5))
	ch, _, style, _ := screen.GetContent(sx, sy)
	assert.Equal(t, '·', ch)
	fg, _, _ := style.Decompose()
	assert.Equal(t, RgbOrbitBand, fg)

	sx, sy, _ = r.Viewport().WorldToScreen(vmath.Vec2{X: 3, Y: 5})
	ch, _, _, _ = screen.GetContent(sx, sy)
	assert.Equal(t, '#', ch)

	sx, sy, _ = r.Viewport().WorldToScreen(vmath.PointOnCircle(0, 5))
	ch, _, style, _ = screen.GetContent(sx, sy)
	assert.Equal(t, '·', ch)
	fg, _, _ = style.Decompose()
	assert.Equal(t, RgbOrbit, fg)
}

func TestEmergencyResetRestoresCursorAndScreen(t *testing.T) {
	var buf strings.Builder
	EmergencyReset(&buf)
	out := buf.String()
	assert.Contains(t, out, "\x1b[?25h")
	assert.Contains(t, out, "\x1b[?1049l")
	assert.True(t, strings.HasSuffix(out, "\x1b[?7h"))
}
