package mouse

import (
	"io"

	"github.com/Alia5/mousekeys/mousekey"
)

// InputState is the mouse state streamed to a VIIPER mouse device.
// viiper:wire mouse c2s buttons:u8 dx:i16 dy:i16 wheel:i16 pan:i16
type InputState struct {
	Buttons uint8
	// DX, DY are relative movement, right and down positive.
	DX, DY int16
	// Wheel is vertical scroll, up positive.
	Wheel int16
	// Pan is horizontal scroll, right positive.
	Pan int16
}

// FromReport converts an engine report.
func FromReport(r mousekey.Report) InputState {
	return InputState{
		Buttons: r.Buttons,
		DX:      int16(r.X),
		DY:      int16(r.Y),
		Wheel:   int16(r.V),
		Pan:     int16(r.H),
	}
}

// MarshalBinary encodes the state as 9 bytes: buttons followed by DX, DY,
// Wheel and Pan as little-endian int16.
func (m *InputState) MarshalBinary() ([]byte, error) {
	b := make([]byte, WireSize)
	b[0] = m.Buttons
	for i, v := range [4]int16{m.DX, m.DY, m.Wheel, m.Pan} {
		b[1+2*i] = byte(v)
		b[2+2*i] = byte(v >> 8)
	}
	return b, nil
}

// UnmarshalBinary decodes the 9 byte wire form.
func (m *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < WireSize {
		return io.ErrUnexpectedEOF
	}
	word := func(i int) int16 { return int16(data[i]) | int16(data[i+1])<<8 }
	m.Buttons = data[0]
	m.DX = word(1)
	m.DY = word(3)
	m.Wheel = word(5)
	m.Pan = word(7)
	return nil
}
