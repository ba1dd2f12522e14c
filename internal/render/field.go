package render

import (
	"math"
	"strings"

	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/scheduler"
	"git.lost.host/meutraa/vsrg/internal/timeline"
)

const ColumnSpacing = 4

// Field draws the playing field. Every position comes from the scheduler's
// RenderPosition for the current frame.
type Field struct {
	Renderer  Renderer
	Rows      int
	HitRow    int
	Columns   []int // terminal column of each lane
	RowsPerMs float64
	Pull      bool

	blank   string
	measure int // first measure that has not scrolled off the bottom
}

// NewField centres lanes columns on a rows by columns terminal, with the
// receptors barRow rows above the bottom, scrolling scrollSpeed rows a second.
func NewField(r Renderer, rows, columns, lanes, barRow int, scrollSpeed float64, pull bool) *Field {
	f := &Field{
		Renderer:  r,
		Rows:      rows,
		HitRow:    rows - barRow,
		Columns:   make([]int, lanes),
		RowsPerMs: scrollSpeed / 1000,
		Pull:      pull,
	}
	left := columns/2 - (lanes-1)*ColumnSpacing/2
	for i := range f.Columns {
		f.Columns[i] = left + i*ColumnSpacing
	}
	if lanes > 0 {
		f.blank = strings.Repeat(" ", (lanes-1)*ColumnSpacing+3)
	}
	return f
}

// Row converts a track distance from the receptors into a terminal row.
func (f *Field) Row(distance int64) (int, bool) {
	ms := float64(distance) / timeline.Scale
	if f.Pull {
		ms = scheduler.Pull(ms)
	}
	row := f.HitRow - int(math.Round(ms*f.RowsPerMs))
	return row, row >= 1 && row <= f.Rows
}

func (f *Field) clamp(row int) int {
	if row < 1 {
		return 1
	}
	if row > f.Rows {
		return f.Rows
	}
	return row
}

func (f *Field) Draw(s *scheduler.Scheduler, measures []game.Measure, now float64) {
	if len(f.Columns) == 0 {
		return
	}
	for row := 1; row <= f.Rows; row++ {
		f.Renderer.Fill(row, f.Columns[0]-1, f.blank)
	}

	position := s.Timeline().Position(now)
	for i := f.measure; i < len(measures); i++ {
		row, visible := f.Row(s.Timeline().Position(measures[i].Time) - position)
		if row > f.Rows {
			f.measure = i + 1
			continue
		}
		if !visible {
			break
		}
		if measures[i].Denom == 1 {
			for _, col := range f.Columns {
				f.Renderer.FillColor(row, col, dimmed, measureSym)
			}
		}
	}

	for _, col := range f.Columns {
		f.Renderer.Fill(f.HitRow, col, barSym)
	}

	s.Visible(func(n *game.Note) {
		f.drawNote(s, n, now)
	})
}

func (f *Field) drawNote(s *scheduler.Scheduler, n *game.Note, now float64) {
	lane := n.Info.Lane
	if lane < 1 || lane > len(f.Columns) {
		return
	}
	col := f.Columns[lane-1]
	head, tail := s.RenderPosition(n, now)
	headRow, headVisible := f.Row(head)
	tailRow, _ := f.Row(tail)

	c := snapColor(n.Info.Denom)
	switch n.State {
	case game.Held:
		c = GradeColor(n.Grade)
		// the head stays on the receptor while held
		headRow, headVisible = f.HitRow, true
	case game.Dead:
		if n.Grade != game.Miss {
			// hit taps and finished holds are gone
			return
		}
		c = dimmed
	}

	if n.Info.IsLong() && tailRow < headRow {
		for row := f.clamp(tailRow); row < f.clamp(headRow); row++ {
			f.Renderer.FillColor(row, col, c, holdSym)
		}
	}
	if headVisible {
		f.Renderer.FillColor(headRow, col, c, noteSym)
	}
}
