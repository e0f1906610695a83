package input

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Alia5/mousekeys/mousekey"
)

// Keymap binds evdev key codes to mousekey codes.
type Keymap map[uint16]mousekey.Code

// DefaultKeymap is the home-row layout: I/J/K/L move, H and ; scroll,
// N is accel-0 and M and , are the first two buttons.
func DefaultKeymap() Keymap {
	return Keymap{
		keyCodes["I"]:         mousekey.MoveUp,
		keyCodes["J"]:         mousekey.MoveLeft,
		keyCodes["K"]:         mousekey.MoveDown,
		keyCodes["L"]:         mousekey.MoveRight,
		keyCodes["H"]:         mousekey.WheelDown,
		keyCodes["SEMICOLON"]: mousekey.WheelUp,
		keyCodes["N"]:         mousekey.Accel0,
		keyCodes["M"]:         mousekey.Button1,
		keyCodes["COMMA"]:     mousekey.Button2,
	}
}

// ParseKeymap builds a keymap from "KEY=code" bindings such as
// "KEY_U=wheel-up" or "KEY_O=KC_BTN3". Later bindings win.
func ParseKeymap(bindings []string) (Keymap, error) {
	km := Keymap{}
	for _, b := range bindings {
		key, code, ok := strings.Cut(b, "=")
		if !ok {
			return nil, fmt.Errorf("binding %q: want KEY=code", b)
		}
		k, err := ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", b, err)
		}
		c, err := mousekey.ParseCode(code)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", b, err)
		}
		km[k] = c
	}
	return km, nil
}

// Merge returns a copy of km with over applied on top.
func (km Keymap) Merge(over Keymap) Keymap {
	out := maps.Clone(km)
	if out == nil {
		out = Keymap{}
	}
	maps.Copy(out, over)
	return out
}

// Bindings lists km as sorted "KEY_X=code" strings.
func (km Keymap) Bindings() []string {
	out := make([]string, 0, len(km))
	for _, k := range slices.Sorted(maps.Keys(km)) {
		out = append(out, KeyName(k)+"="+km[k].String())
	}
	return out
}

// Dispatch applies ev to keys. Button changes are sent at once so clicks do
// not wait for the next motion tick. It reports whether ev was bound.
func (km Keymap) Dispatch(keys *mousekey.Keys, ev Event) bool {
	code, ok := km[ev.Key]
	if !ok {
		return false
	}
	if ev.Pressed {
		keys.On(code)
	} else {
		keys.Off(code)
	}
	if code.IsButton() {
		keys.Send()
	}
	return true
}
