package score

import (
	"math"

	"git.lost.host/meutraa/vsrg/internal/game"
)

var weights = [game.GradeCount]float64{
	game.Marvelous: 100,
	game.Perfect:   98.25,
	game.Great:     65,
	game.Good:      25,
	game.Okay:      -100,
	game.Miss:      -50,
}

// Processor accumulates judgement events into a Result.
type Processor struct {
	result Result
	m2     float64 // running sum of squared deviations from the mean
}

func NewProcessor(rate float64) *Processor {
	return &Processor{result: Result{Rate: rate}}
}

// Apply has the signature of game.Handler.
func (p *Processor) Apply(e game.JudgementEvent) {
	r := &p.result
	if int(e.Grade) >= game.GradeCount {
		return
	}
	r.Counts[e.Grade]++

	if e.Grade == game.Miss {
		r.Combo = 0
		return
	}
	r.Combo++
	if r.Combo > r.MaxCombo {
		r.MaxCombo = r.Combo
	}

	// Release timing is not part of the error statistics
	if e.Kind != game.Tap {
		return
	}
	r.Hits++
	r.TotalError += math.Abs(e.Error)
	delta := e.Error - r.Mean
	r.Mean += delta / float64(r.Hits)
	p.m2 += delta * (e.Error - r.Mean)
	if r.Hits > 1 {
		r.Stdev = math.Sqrt(p.m2 / float64(r.Hits-1))
	}
}

func (p *Processor) Result() Result {
	r := p.result
	total := r.Judgements()
	if total == 0 {
		r.Accuracy = 100
		return r
	}
	sum := 0.0
	for i, c := range r.Counts {
		sum += weights[i] * float64(c)
	}
	r.Accuracy = math.Max(0, sum/float64(total))
	return r
}
