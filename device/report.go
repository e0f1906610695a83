// Package device holds the report encodings shared by the HID sinks.
package device

// ReportBuilder is implemented by input states that encode into a HID report.
type ReportBuilder interface {
	// BuildReport encodes the input state into the bytes of one HID report.
	BuildReport() []byte
}

// CreateOptions overrides the USB identity of a device created on a remote
// VIIPER bus. Nil fields keep the server default.
type CreateOptions struct {
	IdVendor  *uint16
	IdProduct *uint16
}
