package mouse

import "github.com/Alia5/mousekeys/mousekey"

// BootReport is the 5 byte report of ReportDescriptor: eight buttons, X, Y,
// wheel and AC pan as int8.
type BootReport struct {
	Buttons uint8
	X, Y    int8
	Wheel   int8
	Pan     int8
}

// BootFromReport converts an engine report.
func BootFromReport(r mousekey.Report) BootReport {
	return BootReport{Buttons: r.Buttons, X: r.X, Y: r.Y, Wheel: r.V, Pan: r.H}
}

// BuildReport encodes the report for a HID gadget endpoint.
func (b BootReport) BuildReport() []byte {
	return []byte{b.Buttons, byte(b.X), byte(b.Y), byte(b.Wheel), byte(b.Pan)}
}

// ReportDescriptor describes an 8-button mouse with vertical and horizontal
// wheels. The first three bytes of its report match the boot protocol.
var ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xA1, 0x01, // Collection (Application)
	0x09, 0x01, //   Usage (Pointer)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (Button 1)
	0x29, 0x08, //     Usage Maximum (Button 8)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x08, //     Report Count (8)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data, Variable, Absolute)
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x09, 0x38, //     Usage (Wheel)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x03, //     Report Count (3)
	0x81, 0x06, //     Input (Data, Variable, Relative)
	0x05, 0x0C, //     Usage Page (Consumer)
	0x0A, 0x38, 0x02, // Usage (AC Pan)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x06, //     Input (Data, Variable, Relative)
	0xC0, //   End Collection
	0xC0, // End Collection
}
