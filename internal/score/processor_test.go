package score

import (
	"math"
	"testing"

	"git.lost.host/meutraa/vsrg/internal/game"
)

func tap(grade game.Grade, err float64) game.JudgementEvent {
	return game.JudgementEvent{Kind: game.Tap, Grade: grade, Error: err}
}

func TestStatistics(t *testing.T) {
	p := NewProcessor(1)
	for _, e := range []game.JudgementEvent{
		tap(game.Marvelous, -10),
		tap(game.Marvelous, 10),
		tap(game.Perfect, 30),
		{Kind: game.Release, Grade: game.Marvelous, Error: 70},
		tap(game.Miss, 200),
	} {
		p.Apply(e)
	}
	r := p.Result()
	if r.Hits != 3 || r.TotalError != 50 {
		t.Error("unexpected hits", r.Hits, r.TotalError)
	}
	if math.Abs(r.Mean-10) > 1e-9 {
		t.Error("unexpected mean", r.Mean)
	}
	// sample stdev of -10, 10, 30
	if math.Abs(r.Stdev-20) > 1e-9 {
		t.Error("unexpected stdev", r.Stdev)
	}
	if r.Counts[game.Marvelous] != 3 || r.Counts[game.Perfect] != 1 || r.Counts[game.Miss] != 1 {
		t.Error("unexpected counts", r.Counts)
	}
	if r.Judgements() != 5 {
		t.Error("unexpected judgements", r.Judgements())
	}
}

func TestCombo(t *testing.T) {
	p := NewProcessor(1)
	grades := []game.Grade{game.Marvelous, game.Good, game.Okay, game.Miss, game.Great, game.Perfect}
	for _, g := range grades {
		p.Apply(tap(g, 0))
	}
	r := p.Result()
	if r.MaxCombo != 3 || r.Combo != 2 {
		t.Error("unexpected combo", r.Combo, r.MaxCombo)
	}
}

var accuracyTests = []struct {
	Grades   []game.Grade
	Expected float64
}{
	{nil, 100},
	{[]game.Grade{game.Marvelous, game.Marvelous}, 100},
	{[]game.Grade{game.Marvelous, game.Good}, 62.5},
	{[]game.Grade{game.Miss}, 0},
	{[]game.Grade{game.Perfect, game.Great, game.Okay}, 21.083333333333332},
}

func TestAccuracy(t *testing.T) {
	for _, test := range accuracyTests {
		p := NewProcessor(1)
		for _, g := range test.Grades {
			p.Apply(tap(g, 0))
		}
		if a := p.Result().Accuracy; math.Abs(a-test.Expected) > 1e-9 {
			t.Log("Grades  ", test.Grades)
			t.Log("Accuracy", a)
			t.Log("Expected", test.Expected)
			t.Fail()
		}
	}
}
