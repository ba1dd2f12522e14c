// Package input turns key presses into lane inputs stamped with song time.
package input

import (
	"git.lost.host/meutraa/vsrg/internal/audio"
	"git.lost.host/meutraa/vsrg/internal/game"
)

type Event struct {
	game.Input
	Quit bool
}

type Source interface {
	Events() <-chan Event
	Close() error
}

// Lanes resolves a key to its 1-based lane.
type Lanes func(r rune) (int, error)

func stamp(clock audio.Clock, lane int, down bool) Event {
	return Event{Input: game.Input{Lane: lane, Time: clock.Millis(), Down: down}}
}

// Open reads device when one is given, otherwise the terminal.
func Open(device string, clock audio.Clock, lanes Lanes) (Source, error) {
	if device != "" {
		s, err := NewEvdevSource(device, clock, lanes)
		if nil != err {
			return nil, err
		}
		return s, nil
	}
	s, err := NewKeyboardSource(clock, lanes)
	if nil != err {
		return nil, err
	}
	return s, nil
}
