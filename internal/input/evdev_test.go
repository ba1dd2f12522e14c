//go:build linux

package input

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestRead(t *testing.T) {
	var buf bytes.Buffer
	for _, ev := range []keyEvent{
		{Type: evKey, Code: 32, Value: 1}, // d down
		{Type: evKey, Code: 32, Value: 2}, // d repeat
		{Type: 0x04, Code: 4, Value: 32},  // scan code
		{Type: evKey, Code: 33, Value: 1}, // f down
		{Type: evKey, Code: 32, Value: 0}, // d up
		{Type: evKey, Code: 30, Value: 1}, // a is unbound
		{Type: evKey, Code: keyEsc, Value: 1},
	} {
		if err := binary.Write(&buf, binary.LittleEndian, ev); nil != err {
			t.Fatal(err)
		}
	}

	events := make(chan Event, 16)
	if err := read(&buf, fixedClock(50), lanes, events); nil != err {
		t.Fatal(err)
	}
	close(events)

	expected := []Event{
		stamp(fixedClock(50), 1, true),
		stamp(fixedClock(50), 2, true),
		stamp(fixedClock(50), 1, false),
		{Quit: true},
	}
	i := 0
	for e := range events {
		if i >= len(expected) || e != expected[i] {
			t.Error("unexpected event", i, e)
		}
		i++
	}
	if i != len(expected) {
		t.Error("expected", len(expected), "events, got", i)
	}
}
