package mousekey

// Report is one relative mouse report handed to the Host.
//
// X/Y follow screen coordinates (right and down are positive). V is the
// vertical wheel (up positive), H the horizontal wheel (right positive).
type Report struct {
	Buttons uint8
	X, Y    int8
	V, H    int8
}

// HasMotion reports whether any displacement is nonzero.
func (r Report) HasMotion() bool {
	return r.X != 0 || r.Y != 0 || r.V != 0 || r.H != 0
}

// IsZero reports whether the report carries neither motion nor buttons.
func (r Report) IsZero() bool {
	return r.Buttons == 0 && !r.HasMotion()
}

// Host transmits reports to the connected machine.
type Host interface {
	SendMouse(r Report) error
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(r Report) error

func (f HostFunc) SendMouse(r Report) error { return f(r) }
