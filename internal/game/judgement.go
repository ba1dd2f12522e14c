package game

import "math"

type Grade uint8

const (
	Marvelous Grade = iota
	Perfect
	Great
	Good
	Okay
	Miss
)

var gradeNames = [...]string{"Marvelous", "Perfect", "Great", "Good", "Okay", "Miss"}

func (g Grade) String() string {
	if int(g) < len(gradeNames) {
		return gradeNames[g]
	}
	return "Unknown"
}

// GradeCount is the number of grades including Miss.
const GradeCount = int(Miss) + 1

// Windows is the judgement window table. Tap holds ascending ms thresholds,
// best grade first; an error beyond the last threshold is a Miss.
type Windows struct {
	Tap               []float64
	MissTimeout       float64
	Release           float64
	ReleaseMultiplier float64

	// Grades given when a hold is let go too early, or never let go
	EarlyRelease Grade
	LateRelease  Grade
}

func DefaultWindows() Windows {
	return Windows{
		Tap:               []float64{16, 37, 70, 100, 124},
		MissTimeout:       200,
		Release:           80,
		ReleaseMultiplier: 1,
		EarlyRelease:      Okay,
		LateRelease:       Good,
	}
}

// Worst is the widest tap threshold. Notes further in the future than this
// cannot be hit.
func (w Windows) Worst() float64 {
	if len(w.Tap) == 0 {
		return 0
	}
	return w.Tap[len(w.Tap)-1]
}

func (w Windows) ReleaseWindow() float64 {
	if w.ReleaseMultiplier <= 0 {
		return w.Release
	}
	return w.Release * w.ReleaseMultiplier
}

// Judge maps a timing error to the first threshold it fits inside.
func (w Windows) Judge(errorMs float64) Grade {
	d := math.Abs(errorMs)
	for i, ms := range w.Tap {
		if i >= int(Miss) {
			break
		}
		if d <= ms {
			return Grade(i)
		}
	}
	return Miss
}

type JudgementKind uint8

const (
	Tap JudgementKind = iota
	Release
)

func (k JudgementKind) String() string {
	if k == Release {
		return "release"
	}
	return "tap"
}

// JudgementEvent is emitted once per tap and once per long note release.
type JudgementEvent struct {
	Lane  int
	Info  HitObject
	Kind  JudgementKind
	Grade Grade
	Error float64 // ms, positive is late
	Time  float64 // ms, song time the judgement was made
}

type Handler func(JudgementEvent)
