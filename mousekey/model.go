package mousekey

// Model is one of the motion models. It is sealed: the only implementations
// are the ones returned by NewStepped, NewKinetic and NewThreeSpeed.
type Model interface {
	// Name identifies the model in logs and the console.
	Name() string
	// Knobs lists the parameters the tuning console may adjust.
	Knobs() []Knob
	// Defaults restores the parameters the model was constructed with.
	Defaults()

	accelOn(c Code)
	accelOff(c Code)
	accelState() uint8
	clear()

	// active reports whether the pair still needs ticks.
	active(a *axis) bool
	// interval is the minimum elapsed time before the next step of the pair.
	interval(a *axis, p pairKind) uint16
	// step advances the pair and returns its displacement for this tick.
	step(a *axis, p pairKind, elapsed uint16) AxisPair
	// release is called when both components of the pair became neutral.
	release(a *axis)
}

// Knob is a tunable model parameter.
type Knob struct {
	Name     string
	Min, Max int

	get func() int
	set func(int)
}

// Value returns the current value.
func (k Knob) Value() int { return k.get() }

// Set stores v saturated to the knob range and returns the stored value.
func (k Knob) Set(v int) int {
	v = clampInt(v, k.Min, k.Max)
	k.set(v)
	return k.get()
}

func uint8Knob(name string, p *uint8) Knob {
	return Knob{
		Name: name, Min: 0, Max: 255,
		get: func() int { return int(*p) },
		set: func(v int) { *p = uint8(v) },
	}
}

func uint16Knob(name string, p *uint16, max int) Knob {
	return Knob{
		Name: name, Min: 0, Max: max,
		get: func() int { return int(*p) },
		set: func(v int) { *p = uint16(v) },
	}
}

// Params returns a copy of the current parameters of m: a StepParams,
// KineticParams or ThreeSpeedParams.
func Params(m Model) any {
	switch m := m.(type) {
	case *stepped:
		return m.params
	case *kinetic:
		return m.params
	case *threeSpeed:
		return m.params
	default:
		return nil
	}
}
