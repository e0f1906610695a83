package mousekey

import (
	"fmt"
	"strings"
)

// Code identifies a mouse key. The set is closed; values outside it are ignored
// by the engine.
type Code uint8

const (
	MoveUp Code = iota + 1
	MoveDown
	MoveLeft
	MoveRight
	WheelUp
	WheelDown
	WheelLeft
	WheelRight
	Button1
	Button2
	Button3
	Button4
	Button5
	Button6
	Button7
	Button8
	Accel0
	Accel1
	Accel2
)

var codeNames = map[Code]string{
	MoveUp:     "move-up",
	MoveDown:   "move-down",
	MoveLeft:   "move-left",
	MoveRight:  "move-right",
	WheelUp:    "wheel-up",
	WheelDown:  "wheel-down",
	WheelLeft:  "wheel-left",
	WheelRight: "wheel-right",
	Button1:    "button-1",
	Button2:    "button-2",
	Button3:    "button-3",
	Button4:    "button-4",
	Button5:    "button-5",
	Button6:    "button-6",
	Button7:    "button-7",
	Button8:    "button-8",
	Accel0:     "accel-0",
	Accel1:     "accel-1",
	Accel2:     "accel-2",
}

// QMK keycode aliases accepted by ParseCode.
var qmkAliases = map[string]Code{
	"KC_MS_U":     MoveUp,
	"KC_MS_UP":    MoveUp,
	"KC_MS_D":     MoveDown,
	"KC_MS_DOWN":  MoveDown,
	"KC_MS_L":     MoveLeft,
	"KC_MS_LEFT":  MoveLeft,
	"KC_MS_R":     MoveRight,
	"KC_MS_RIGHT": MoveRight,
	"KC_WH_U":     WheelUp,
	"KC_WH_D":     WheelDown,
	"KC_WH_L":     WheelLeft,
	"KC_WH_R":     WheelRight,
	"KC_BTN1":     Button1,
	"KC_BTN2":     Button2,
	"KC_BTN3":     Button3,
	"KC_BTN4":     Button4,
	"KC_BTN5":     Button5,
	"KC_BTN6":     Button6,
	"KC_BTN7":     Button7,
	"KC_BTN8":     Button8,
	"KC_ACL0":     Accel0,
	"KC_ACL1":     Accel1,
	"KC_ACL2":     Accel2,
}

// ParseCode resolves a kebab-case name ("move-up", "button-3") or a QMK alias
// ("KC_MS_U", "KC_BTN1") into a Code.
func ParseCode(name string) (Code, error) {
	s := strings.TrimSpace(name)
	if c, ok := qmkAliases[strings.ToUpper(s)]; ok {
		return c, nil
	}
	s = strings.ToLower(strings.ReplaceAll(s, "_", "-"))
	for c, n := range codeNames {
		if n == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown mouse key %q", name)
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// IsMove reports whether c is a cursor direction.
func (c Code) IsMove() bool { return c >= MoveUp && c <= MoveRight }

// IsWheel reports whether c is a wheel direction.
func (c Code) IsWheel() bool { return c >= WheelUp && c <= WheelRight }

// IsButton reports whether c is one of the eight buttons.
func (c Code) IsButton() bool { return c >= Button1 && c <= Button8 }

// IsAccel reports whether c is an acceleration modifier.
func (c Code) IsAccel() bool { return c >= Accel0 && c <= Accel2 }

// buttonBit returns the latch bit of a button code.
func (c Code) buttonBit() uint8 { return 1 << (c - Button1) }

// accelIndex returns 0, 1 or 2 for accel codes.
func (c Code) accelIndex() int { return int(c - Accel0) }
