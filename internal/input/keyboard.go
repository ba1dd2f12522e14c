package input

import (
	"git.lost.host/meutraa/vsrg/internal/audio"
	"github.com/eiannone/keyboard"
	log "github.com/sirupsen/logrus"
)

// KeyboardSource reads the terminal. Terminals only report presses, so each
// press is followed immediately by a release and holds can not be played.
type KeyboardSource struct {
	events chan Event
}

func NewKeyboardSource(clock audio.Clock, lanes Lanes) (*KeyboardSource, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, err
	}
	s := &KeyboardSource{events: make(chan Event, 128)}
	go func() {
		defer close(s.events)
		for key := range keys {
			if nil != key.Err {
				log.WithError(key.Err).Error("unable to read keyboard")
				return
			}
			for _, e := range translate(key, clock, lanes) {
				s.events <- e
			}
		}
	}()
	return s, nil
}

func translate(key keyboard.KeyEvent, clock audio.Clock, lanes Lanes) []Event {
	if key.Key == keyboard.KeyEsc {
		return []Event{{Quit: true}}
	}
	lane, err := lanes(key.Rune)
	if nil != err {
		log.WithError(err).Debug("not a column key")
		return nil
	}
	down := stamp(clock, lane, true)
	up := down
	up.Down = false
	return []Event{down, up}
}

func (s *KeyboardSource) Events() <-chan Event {
	return s.events
}

func (s *KeyboardSource) Close() error {
	return keyboard.Close()
}
