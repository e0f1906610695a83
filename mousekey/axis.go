package mousekey

// AxisPair carries held intent per direction: each component is -1, 0 or +1.
// For the cursor pair X is horizontal and Y vertical (down positive); for the
// wheel pair X is the horizontal wheel (right positive) and Y the vertical
// wheel (up positive).
type AxisPair struct {
	X, Y int8
}

func (p AxisPair) neutral() bool { return p.X == 0 && p.Y == 0 }

func (p AxisPair) diagonal() bool { return p.X != 0 && p.Y != 0 }

type pairKind uint8

const (
	cursorPair pairKind = iota
	wheelPair
)

func (k pairKind) String() string {
	if k == wheelPair {
		return "wheel"
	}
	return "cursor"
}

// axis is the mutable state of one pair. repeat, vel and rem are owned by the
// active model.
type axis struct {
	dir    AxisPair
	last   uint16
	repeat uint8
	vel    [2]int32 // Q8 counts/s
	rem    [2]int32 // Q8 counts
}

func (a *axis) resetMotion() {
	a.repeat = 0
	a.vel = [2]int32{}
	a.rem = [2]int32{}
}

// component returns a pointer to the X (horizontal) or Y component.
func (a *axis) component(horizontal bool) *int8 {
	if horizontal {
		return &a.dir.X
	}
	return &a.dir.Y
}

// timesInvSqrt2 scales a magnitude by 181/256 (≈ 1/√2).
func timesInvSqrt2(m int) int {
	return (m * 181) >> 8
}

// diagonal scales v by 1/√2 keeping its sign and never reaching zero.
func diagonal(v int) int {
	if v == 0 {
		return 0
	}
	m := timesInvSqrt2(abs(v))
	if m == 0 {
		m = 1
	}
	if v < 0 {
		return -m
	}
	return m
}

// scaleDir turns held intent into a displacement of magnitude unit per held
// component, applying the diagonal correction.
func scaleDir(dir AxisPair, unit int) AxisPair {
	x := int(dir.X) * unit
	y := int(dir.Y) * unit
	if x != 0 && y != 0 {
		x = diagonal(x)
		y = diagonal(y)
	}
	return AxisPair{X: int8(x), Y: int8(y)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
