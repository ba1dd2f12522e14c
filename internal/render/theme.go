package render

import (
	"image/color"

	"git.lost.host/meutraa/vsrg/internal/game"
)

const (
	noteSym    = "⬤"
	holdSym    = "│"
	barSym     = "-"
	measureSym = "┄"
)

var (
	// by beat snap
	noteColors = map[int]color.RGBA{
		1:  {236, 30, 0, 255},    // 1/4 red
		2:  {0, 118, 236, 255},   // 1/8 blue
		3:  {106, 0, 236, 255},   // 1/12 purple
		4:  {236, 195, 0, 255},   // 1/16 yellow
		6:  {236, 0, 106, 255},   // 1/24 pink
		8:  {236, 128, 0, 255},   // 1/32 orange
		12: {173, 236, 236, 255}, // 1/48 light blue
		16: {0, 236, 128, 255},   // 1/64 green
		48: {110, 147, 89, 255},  // 1/192 olive
	}
	otherColor = color.RGBA{255, 255, 255, 255}
	gradeColors = [game.GradeCount]color.RGBA{
		game.Marvelous: {173, 236, 236, 255},
		game.Perfect:   {236, 195, 0, 255},
		game.Great:     {0, 236, 128, 255},
		game.Good:      {0, 118, 236, 255},
		game.Okay:      {236, 0, 106, 255},
		game.Miss:      {236, 30, 0, 255},
	}
	dimmed = color.RGBA{106, 106, 106, 255}
)

func snapColor(denom int) color.RGBA {
	if c, ok := noteColors[denom]; ok {
		return c
	}
	return otherColor
}

func GradeColor(g game.Grade) color.RGBA {
	if int(g) >= len(gradeColors) {
		return dimmed
	}
	return gradeColors[g]
}
