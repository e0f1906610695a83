package input

import (
	"fmt"
	"strconv"
	"strings"
)

// Linux key codes (input-event-codes.h) for the keys a keymap can name.
var keyCodes = map[string]uint16{
	"ESC": 1, "1": 2, "2": 3, "3": 4, "4": 5, "5": 6, "6": 7, "7": 8, "8": 9, "9": 10, "0": 11,
	"MINUS": 12, "EQUAL": 13, "BACKSPACE": 14, "TAB": 15,
	"Q": 16, "W": 17, "E": 18, "R": 19, "T": 20, "Y": 21, "U": 22, "I": 23, "O": 24, "P": 25,
	"LEFTBRACE": 26, "RIGHTBRACE": 27, "ENTER": 28, "LEFTCTRL": 29,
	"A": 30, "S": 31, "D": 32, "F": 33, "G": 34, "H": 35, "J": 36, "K": 37, "L": 38,
	"SEMICOLON": 39, "APOSTROPHE": 40, "GRAVE": 41, "LEFTSHIFT": 42, "BACKSLASH": 43,
	"Z": 44, "X": 45, "C": 46, "V": 47, "B": 48, "N": 49, "M": 50,
	"COMMA": 51, "DOT": 52, "SLASH": 53, "RIGHTSHIFT": 54, "LEFTALT": 56, "SPACE": 57, "CAPSLOCK": 58,
	"F1": 59, "F2": 60, "F3": 61, "F4": 62, "F5": 63, "F6": 64, "F7": 65, "F8": 66, "F9": 67, "F10": 68,
	"F11": 87, "F12": 88, "RIGHTCTRL": 97, "RIGHTALT": 100,
	"HOME": 102, "UP": 103, "PAGEUP": 104, "LEFT": 105, "RIGHT": 106, "END": 107, "DOWN": 108,
	"PAGEDOWN": 109, "INSERT": 110, "DELETE": 111,
}

var keyNames = func() map[uint16]string {
	m := make(map[uint16]string, len(keyCodes))
	for name, code := range keyCodes {
		m[code] = "KEY_" + name
	}
	return m
}()

// ParseKey accepts "KEY_J", "j" or a decimal key code.
func ParseKey(s string) (uint16, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.ParseUint(s, 10, 16); err == nil && !strings.HasPrefix(s, "KEY_") && len(s) > 1 {
		return uint16(n), nil
	}
	if code, ok := keyCodes[strings.TrimPrefix(s, "KEY_")]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

// KeyName returns the KEY_ name of code, or the number for unnamed keys.
func KeyName(code uint16) string {
	if n, ok := keyNames[code]; ok {
		return n
	}
	return strconv.Itoa(int(code))
}
