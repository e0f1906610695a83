package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Alia5/mousekeys/internal/configpaths"
	"github.com/Alia5/mousekeys/internal/log"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file for a specific command.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"run,replay,tune"`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"yaml"`
	Output  string `help:"Destination file path (defaults to <command>.<format> in the current directory)"`
	User    bool   `help:"Write to the user config directory, where it is loaded by default"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// Run generates a configuration template from the command structs and their
// default tags.
func (c *ConfigInit) Run() error {
	format := normalizeFormat(c.Format)
	if format == "" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}

	var cmd any
	switch c.Command {
	case "run":
		cmd = Run{}
	case "replay":
		cmd = Replay{}
	case "tune":
		cmd = Tune{}
	default:
		return errors.New("unknown command; expected 'run', 'replay' or 'tune'")
	}
	root := buildMapFromStruct(reflect.ValueOf(cmd), true)
	root["log"] = buildMapFromStruct(reflect.ValueOf(log.Config{}), true)

	dest := c.Output
	switch {
	case dest != "":
	case c.User:
		dest = configpaths.DefaultNamedConfigPath("config", format)
	default:
		dest = c.Command + "." + format
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	return writeConfig(dest, format, root)
}

func writeConfig(dest, format string, root map[string]any) error {
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}
	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(root, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(root)
	case "toml":
		data, err = toml.Marshal(root)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// formatOf picks the config format from a file extension.
func formatOf(path string) string {
	return normalizeFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// snakeCase turns a Go field name into the key the config loaders look up
// for its flag: TimeToMax becomes time_to_max.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// buildMapFromStruct mirrors the flags of a kong command struct as nested
// maps, one level per dotted prefix. Leaves hold the default tag values when
// defaults is set and the current field values otherwise.
func buildMapFromStruct(v reflect.Value, defaults bool) map[string]any {
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("arg"); ok {
			continue
		}
		if _, ok := f.Tag.Lookup("cmd"); ok {
			continue
		}

		if _, ok := f.Tag.Lookup("embed"); ok {
			name := strings.TrimSuffix(f.Tag.Get("prefix"), ".")
			sub := buildMapFromStruct(v.Field(i), defaults)
			if name == "" {
				for k, val := range sub {
					out[k] = val
				}
				continue
			}
			// Prefixes such as "sink.viiper." nest one map per part.
			dst := out
			for _, part := range strings.Split(name, ".") {
				next, ok := dst[part].(map[string]any)
				if !ok {
					next = map[string]any{}
					dst[part] = next
				}
				dst = next
			}
			for k, val := range sub {
				dst[k] = val
			}
			continue
		}

		key := snakeCase(f.Name)
		if name := f.Tag.Get("name"); name != "" {
			key = strings.ReplaceAll(name, "-", "_")
		}
		var val any
		if defaults {
			val = defaultValueForField(f.Type, f.Tag.Get("default"))
		} else {
			val = currentValue(v.Field(i))
		}
		if val != nil {
			out[key] = val
		}
	}
	return out
}

func defaultValueForField(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeOf(time.Duration(0)) {
		if def != "" {
			return def
		}
		return "0s"
	}
	switch t.Kind() {
	case reflect.String:
		return def // may be empty
	case reflect.Slice:
		if def == "" {
			return nil
		}
		return def
	case reflect.Bool:
		b, err := strconv.ParseBool(def)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(def, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return nil
	}
}

func currentValue(v reflect.Value) any {
	if d, ok := v.Interface().(time.Duration); ok {
		return d.String()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}
		// Slices are written the way they are typed on the command line.
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	default:
		return nil
	}
}
