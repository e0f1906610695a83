// Package config defines the command line of mousekeys.
package config

import (
	"github.com/Alia5/mousekeys/internal/cmd"
	"github.com/Alia5/mousekeys/internal/log"
)

// CLI is the root kong grammar. Every flag may also come from a config file
// found through --config, MOUSEKEYS_CONFIG or the default search paths.
type CLI struct {
	Config string     `help:"Config file (.json, .yaml or .toml)" type:"path" env:"MOUSEKEYS_CONFIG"`
	Log    log.Config `embed:"" prefix:"log."`

	Run        cmd.Run           `cmd:"" default:"withargs" help:"Turn keyboard keys into mouse reports"`
	Replay     cmd.Replay        `cmd:"" help:"Replay a key script on a simulated clock"`
	Tune       cmd.Tune          `cmd:"" help:"Tune motion parameters on the interactive console"`
	Descriptor cmd.Descriptor    `cmd:"" help:"Print the HID report descriptor of the gadget sink"`
	ConfigCmd  cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
