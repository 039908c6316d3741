package render

import "github.com/gdamore/tcell/v2"

// Palette
var (
	RgbBackground = tcell.NewRGBColor(8, 8, 16)    // Near-black blue
	RgbOrbit      = tcell.NewRGBColor(40, 50, 80)  // Dim ring
	RgbOrbitBand  = tcell.NewRGBColor(70, 40, 40)  // Ring cells under a blocking obstacle
	RgbHUDText    = tcell.NewRGBColor(200, 200, 200)
	RgbHUDDim     = tcell.NewRGBColor(110, 110, 120)
	RgbHUDAlert   = tcell.NewRGBColor(255, 90, 60)
	RgbHUDCalm    = tcell.NewRGBColor(90, 200, 140)
	RgbSeparator  = tcell.NewRGBColor(60, 60, 70)

	RgbPlayer      = tcell.NewRGBColor(0, 230, 255)   // Cyan
	RgbPlayerGrace = tcell.NewRGBColor(255, 255, 255) // White while invulnerable
	RgbPlayerDead  = tcell.NewRGBColor(255, 40, 40)

	RgbOrb     = tcell.NewRGBColor(230, 140, 40)  // Orange
	RgbShard   = tcell.NewRGBColor(240, 220, 70)  // Yellow
	RgbBarrier = tcell.NewRGBColor(200, 60, 200)  // Magenta
	RgbGate    = tcell.NewRGBColor(120, 160, 255) // Light blue
	RgbForced  = tcell.NewRGBColor(255, 60, 60)   // Wave and debug spawns
)

// familyStyle returns glyph and color for an obstacle family name
func familyStyle(family string, forced bool) (rune, tcell.Color) {
	var (
		ch    rune
		color tcell.Color
	)
	switch family {
	case "shard":
		ch, color = '*', RgbShard
	case "barrier":
		ch, color = '=', RgbBarrier
	case "gate":
		ch, color = '#', RgbGate
	default:
		ch, color = 'O', RgbOrb
	}
	if forced {
		color = RgbForced
	}
	return ch, color
}
