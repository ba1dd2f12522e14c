//go:build linux

package input

import (
	"encoding/binary"
	"io"
	"os"
	"syscall"

	"git.lost.host/meutraa/vsrg/internal/audio"
	log "github.com/sirupsen/logrus"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey  = 0x01
	keyEsc = 1
)

var keyCodes = map[uint16]rune{
	16: 'q', 17: 'w', 18: 'e', 19: 'r', 20: 't', 21: 'y', 22: 'u', 23: 'i', 24: 'o', 25: 'p',
	30: 'a', 31: 's', 32: 'd', 33: 'f', 34: 'g', 35: 'h', 36: 'j', 37: 'k', 38: 'l', 39: ';',
	44: 'z', 45: 'x', 46: 'c', 47: 'v', 48: 'b', 49: 'n', 50: 'm', 57: ' ',
}

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// EvdevSource reads a Linux input device, which reports releases as well as
// presses.
type EvdevSource struct {
	file   *os.File
	events chan Event
}

func NewEvdevSource(device string, clock audio.Clock, lanes Lanes) (*EvdevSource, error) {
	file, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	s := &EvdevSource{file: file, events: make(chan Event, 128)}
	go func() {
		defer close(s.events)
		if err := read(file, clock, lanes, s.events); nil != err {
			log.WithError(err).Error("unable to read keyboard input")
		}
	}()
	return s, nil
}

func read(r io.Reader, clock audio.Clock, lanes Lanes, events chan<- Event) error {
	var ev keyEvent
	for {
		if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
			if err == io.EOF {
				return nil
			}
			return err
		}
		// 0 is a release, 1 a press and 2 a repeat
		if ev.Type != evKey || ev.Value > 1 {
			continue
		}
		if ev.Code == keyEsc {
			events <- Event{Quit: true}
			continue
		}
		key, ok := keyCodes[ev.Code]
		if !ok {
			continue
		}
		lane, err := lanes(key)
		if nil != err {
			continue
		}
		events <- stamp(clock, lane, ev.Value == 1)
	}
}

func (s *EvdevSource) Events() <-chan Event {
	return s.events
}

func (s *EvdevSource) Close() error {
	return s.file.Close()
}
