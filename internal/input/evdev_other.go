//go:build !linux

package input

import (
	"errors"

	"git.lost.host/meutraa/vsrg/internal/audio"
)

type EvdevSource struct{}

func NewEvdevSource(device string, clock audio.Clock, lanes Lanes) (*EvdevSource, error) {
	return nil, errors.New("evdev devices are only readable on linux")
}

func (s *EvdevSource) Events() <-chan Event {
	return nil
}

func (s *EvdevSource) Close() error {
	return nil
}
