package score

import (
	"time"

	"git.lost.host/meutraa/vsrg/internal/game"
)

// Scorer persists the results of finished charts.
type Scorer interface {
	// Save the result of this performance
	Save(chart *game.Chart, result Result) error

	// Load up previous results for the chart, most recent first
	Load(chart *game.Chart) ([]Result, error)

	Close() error
}

type Result struct {
	Counts     [game.GradeCount]int
	Hits       int     // taps judged better than Miss
	TotalError float64 // ms, sum of absolute tap errors
	Mean       float64 // ms, signed
	Stdev      float64 // ms
	Accuracy   float64 // percent
	Combo      int
	MaxCombo   int
	Rate       float64
	Played     time.Time
}

func (r Result) Judgements() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}
