package input

import (
	"errors"
	"testing"

	"github.com/eiannone/keyboard"
)

type fixedClock float64

func (c fixedClock) Millis() float64 {
	return float64(c)
}

func lanes(r rune) (int, error) {
	switch r {
	case 'd':
		return 1, nil
	case 'f':
		return 2, nil
	}
	return 0, errors.New("unbound")
}

func TestTranslate(t *testing.T) {
	events := translate(keyboard.KeyEvent{Rune: 'f'}, fixedClock(1234), lanes)
	if len(events) != 2 {
		t.Fatal("expected a press and a release, got", events)
	}
	if !events[0].Down || events[1].Down {
		t.Error("expected down then up", events)
	}
	for _, e := range events {
		if e.Lane != 2 || e.Time != 1234 || e.Quit {
			t.Error("unexpected event", e)
		}
	}

	if events := translate(keyboard.KeyEvent{Rune: 'x'}, fixedClock(0), lanes); len(events) != 0 {
		t.Error("unbound key produced", events)
	}
	if events := translate(keyboard.KeyEvent{Key: keyboard.KeyEsc}, fixedClock(0), lanes); len(events) != 1 || !events[0].Quit {
		t.Error("expected escape to quit", events)
	}
}
