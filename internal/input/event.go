// Package input turns Linux evdev key events into mousekey codes.
package input

import (
	"encoding/binary"
	"fmt"
)

const (
	// EventSize is sizeof(struct input_event) with a 64-bit timeval.
	EventSize = 24

	evKey = 0x01

	valueRelease = 0
	valuePress   = 1
	valueRepeat  = 2
)

// Event is one key transition.
type Event struct {
	Key     uint16
	Pressed bool
}

func (e Event) String() string {
	state := "up"
	if e.Pressed {
		state = "down"
	}
	return fmt.Sprintf("%s %s", KeyName(e.Key), state)
}

// Decode parses one input_event. It reports false for anything other than a
// key press or release; autorepeat is dropped since the engine keeps its own
// timing.
func Decode(b []byte) (Event, bool) {
	if len(b) < EventSize {
		return Event{}, false
	}
	typ := binary.LittleEndian.Uint16(b[16:18])
	code := binary.LittleEndian.Uint16(b[18:20])
	value := int32(binary.LittleEndian.Uint32(b[20:24]))
	if typ != evKey {
		return Event{}, false
	}
	switch value {
	case valuePress:
		return Event{Key: code, Pressed: true}, true
	case valueRelease:
		return Event{Key: code}, true
	default:
		return Event{}, false
	}
}

// Encode is the inverse of Decode, used to synthesise device streams.
func Encode(e Event) []byte {
	b := make([]byte, EventSize)
	binary.LittleEndian.PutUint16(b[16:18], evKey)
	binary.LittleEndian.PutUint16(b[18:20], e.Key)
	if e.Pressed {
		binary.LittleEndian.PutUint32(b[20:24], valuePress)
	}
	return b
}
