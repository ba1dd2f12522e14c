// Package judge matches key presses and releases against the notes a
// scheduler has made active, grading the timing of each.
package judge

import (
	"math"

	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/scheduler"
)

type Engine struct {
	scheduler *scheduler.Scheduler
	windows   game.Windows
}

func New(s *scheduler.Scheduler) *Engine {
	return &Engine{scheduler: s, windows: s.Windows()}
}

// Apply routes an input to OnKeyDown or OnKeyUp.
func (e *Engine) Apply(input game.Input) (*game.Note, error) {
	if input.Down {
		return e.OnKeyDown(input.Lane, input.Time)
	}
	return e.OnKeyUp(input.Lane, input.Time)
}

// OnKeyDown judges the active note closest to time in a lane. Notes further
// ahead than the widest window are never eligible, and of two equally close
// notes the earlier wins. A press with nothing eligible returns a nil note.
// The returned note is only valid until the scheduler next advances.
func (e *Engine) OnKeyDown(lane int, time float64) (*game.Note, error) {
	worst := e.windows.Worst()
	closest, distance := -1, math.Inf(1)

	err := e.scheduler.ScanActive(lane, func(i int, n *game.Note) bool {
		d := float64(n.Info.StartTime) - time
		if d >= worst {
			// everything after this is later still
			return false
		}
		if abs := math.Abs(d); abs < distance {
			closest, distance = i, abs
		}
		return true
	})
	if nil != err {
		return nil, err
	}
	if closest < 0 {
		return nil, nil
	}

	return e.scheduler.Hit(lane, closest, time, e.windows.Judge(distance))
}

// OnKeyUp judges the most overdue held note in a lane. Releases after the
// release window are left for the scheduler to sweep up.
func (e *Engine) OnKeyUp(lane int, time float64) (*game.Note, error) {
	n, ok, err := e.scheduler.HeldFront(lane)
	if nil != err || !ok {
		return nil, err
	}

	window := e.windows.ReleaseWindow()
	d := time - float64(n.Info.EndTime)
	var grade game.Grade
	switch {
	case d < -window:
		grade = e.windows.EarlyRelease
	case d <= window:
		grade = game.Marvelous
	default:
		return nil, nil
	}

	return e.scheduler.Release(lane, time, grade)
}
