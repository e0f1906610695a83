package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Alia5/mousekeys/device/mouse"
	"github.com/Alia5/mousekeys/internal/log"
)

// Descriptor writes the HID report descriptor used by the gadget sink, for
// example into a configfs functions/hid.usbN/report_desc.
type Descriptor struct {
	Format string `help:"Output encoding" enum:"binary,hex" default:"binary"`
	Output string `help:"Destination file; stdout when empty" type:"path"`
}

// Run is called by Kong when the descriptor command is executed.
func (d *Descriptor) Run() error {
	if d.Output == "" {
		return d.write(os.Stdout)
	}
	f, err := os.Create(d.Output)
	if err != nil {
		return err
	}
	if err := d.write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (d *Descriptor) write(w io.Writer) error {
	var err error
	switch d.Format {
	case "hex":
		_, err = fmt.Fprintln(w, log.Hex(mouse.ReportDescriptor))
	default:
		_, err = w.Write(mouse.ReportDescriptor)
	}
	return err
}
