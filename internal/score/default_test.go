package score

import (
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/vsrg/internal/game"
)

func TestStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if nil != err {
		t.Fatal(err)
	}
	defer s.Close()

	chart := &game.Chart{Difficulty: game.Difficulty{Section: "1000\n0100\n"}}
	other := &game.Chart{Difficulty: game.Difficulty{Section: "0010\n0001\n"}}

	first := Result{Rate: 1, Mean: 2.5, Stdev: 8, Accuracy: 97.5, MaxCombo: 40, Played: time.Unix(100, 0)}
	first.Counts[game.Marvelous] = 30
	first.Counts[game.Miss] = 2
	second := Result{Rate: 1.1, Accuracy: 99, Played: time.Unix(200, 0)}

	for _, r := range []Result{first, second} {
		if err := s.Save(chart, r); nil != err {
			t.Fatal(err)
		}
	}

	results, err := s.Load(chart)
	if nil != err {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatal("expected two results, got", len(results))
	}
	if results[0].Rate != 1.1 {
		t.Error("expected the most recent first", results)
	}
	r := results[1]
	if r.Counts != first.Counts || r.Mean != first.Mean || r.Stdev != first.Stdev ||
		r.Accuracy != first.Accuracy || r.MaxCombo != first.MaxCombo || !r.Played.Equal(first.Played) {
		t.Log("Loaded  ", r)
		t.Log("Expected", first)
		t.Fail()
	}

	results, err = s.Load(other)
	if nil != err || len(results) != 0 {
		t.Error("expected no results for another chart", results, err)
	}
}
