package render

import "github.com/gdamore/tcell/v2"

// Tokyo Night palette
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)
	RgbBorder     = tcell.NewRGBColor(86, 95, 137)
	RgbWall       = tcell.NewRGBColor(169, 177, 214)
	RgbBall       = tcell.NewRGBColor(255, 165, 0)
	RgbGoal       = tcell.NewRGBColor(0, 200, 0)
	RgbGoalCenter = tcell.NewRGBColor(50, 255, 50)
	RgbStart      = tcell.NewRGBColor(60, 100, 200)
	RgbMessage    = tcell.NewRGBColor(255, 255, 0)
	RgbStatusBar  = tcell.NewRGBColor(255, 255, 255)
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)
	RgbScoreBg    = tcell.NewRGBColor(144, 238, 144)
	RgbPhaseBg    = tcell.NewRGBColor(135, 206, 250)
	RgbDebugText  = tcell.NewRGBColor(180, 180, 180)
	RgbExhausted  = tcell.NewRGBColor(255, 80, 80)
)

var baseStyle = tcell.StyleDefault.Background(RgbBackground).Foreground(RgbStatusBar)
