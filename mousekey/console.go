package mousekey

import (
	"fmt"
	"io"
)

// ConsoleKey is a key typed into the tuning console: a printable rune or one
// of the special keys below.
type ConsoleKey rune

const (
	KeyUp ConsoleKey = -(iota + 1)
	KeyDown
	KeyLeft
	KeyRight
	KeyEsc
)

// Console is the interactive parameter tuner. It is driven one key at a time
// and writes its output to w.
type Console struct {
	keys *Keys
	w    io.Writer
	// param is the selected knob, 1-based; 0 means none.
	param int
}

// NewConsole returns a console adjusting the model of keys.
func NewConsole(keys *Keys, w io.Writer) *Console {
	return &Console{keys: keys, w: w}
}

// Prompt writes the prompt for the current selection.
func (c *Console) Prompt() {
	c.keys.mu.Lock()
	defer c.keys.mu.Unlock()
	c.prompt()
}

func (c *Console) prompt() {
	if c.param == 0 {
		fmt.Fprint(c.w, "M> ")
		return
	}
	fmt.Fprintf(c.w, "M%d:%s> ", c.param, c.knob(c.param).Name)
}

// Handle processes one key and writes the following prompt. It returns false
// when the user quits with nothing selected.
func (c *Console) Handle(key ConsoleKey) bool {
	c.keys.mu.Lock()
	defer c.keys.mu.Unlock()

	change := 0
	switch key {
	case 'h', '?':
		fmt.Fprintf(c.w, "\n\t- Mousekey (%s) -\n", c.keys.model.Name())
		c.help()
	case 'q', KeyEsc:
		fmt.Fprint(c.w, "q\n")
		if c.param == 0 {
			return false
		}
		c.param = 0
	case 'p':
		fmt.Fprint(c.w, "\n\t- Values -\n")
		c.print()
	case '1', '2', '3', '4', '5', '6', '7', '8', '9', '0':
		n := int(key-'1') + 1
		if key == '0' {
			n = 10
		}
		if n > len(c.keys.model.Knobs()) {
			c.param = 0
			fmt.Fprint(c.w, "?\n")
			break
		}
		c.param = n
		fmt.Fprintf(c.w, "%d\n", n)
	case KeyUp:
		change = 1
	case KeyDown:
		change = -1
	case KeyLeft:
		change = -10
	case KeyRight:
		change = 10
	case 'd':
		c.keys.model.Defaults()
		fmt.Fprint(c.w, "defaults\n")
	default:
		fmt.Fprint(c.w, "?\n")
	}

	if change != 0 {
		if c.param == 0 {
			fmt.Fprint(c.w, "?\n")
		} else {
			k := c.knob(c.param)
			fmt.Fprintf(c.w, "= %d\n", k.Set(k.Value()+change))
		}
	}
	c.prompt()
	return true
}

func (c *Console) knob(n int) Knob {
	return c.keys.model.Knobs()[n-1]
}

func (c *Console) print() {
	knobs := c.keys.model.Knobs()
	if len(knobs) == 0 {
		fmt.Fprint(c.w, "no knobs sorry\n")
		return
	}
	for i, k := range knobs {
		fmt.Fprintf(c.w, "%d:\t%s: %d\n", i+1, k.Name, k.Value())
	}
}

func (c *Console) help() {
	c.print()
	fmt.Fprint(c.w, "p:\tprint values\n"+
		"d:\tset defaults\n"+
		"up:\t+1\n"+
		"dn:\t-1\n"+
		"lt:\t-10\n"+
		"rt:\t+10\n"+
		"ESC/q:\tquit\n")
}
