package mouse

// Button bitmasks of the report button byte.
const (
	ButtonLeft    = 0x01
	ButtonRight   = 0x02
	ButtonMiddle  = 0x04
	ButtonBack    = 0x08
	ButtonForward = 0x10
)

const (
	// WireSize is the length of an InputState on a VIIPER device stream.
	WireSize = 9
	// BootSize is the length of a report described by ReportDescriptor.
	BootSize = 5
)
