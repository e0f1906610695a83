package configpaths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

const appName = "mousekeys"

// configBases are the file names looked up in every config directory.
var configBases = []string{appName, "config"}

// DefaultConfigDir returns the per-user configuration directory for mousekeys.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// DefaultNamedConfigPath returns the default config file path for the given
// format and base name (e.g., "run").
func DefaultNamedConfigPath(baseName, format string) string {
	ext := "json"
	switch format {
	case "yaml", "yml":
		ext = "yaml"
	case "toml":
		ext = "toml"
	}
	return filepath.Join(DefaultConfigDir(), baseName+"."+ext)
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// ConfigCandidatePaths builds candidate paths for config files per format.
// If userPath is provided, it is prioritized and routed to the matching loader by extension.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	addDir := func(dir string) {
		for _, base := range configBases {
			p := filepath.Join(dir, base)
			jsonPaths = append(jsonPaths, p+".json")
			yamlPaths = append(yamlPaths, p+".yaml", p+".yml")
			tomlPaths = append(tomlPaths, p+".toml")
		}
	}

	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userPath)
		case ".toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			jsonPaths = append(jsonPaths, userPath)
		}
	}

	// Working directory candidates
	if wd, err := os.Getwd(); err == nil {
		addDir(wd)
	}

	// Config home, then the XDG system dirs
	addDir(DefaultConfigDir())
	for _, dir := range xdg.ConfigDirs {
		addDir(filepath.Join(dir, appName))
	}

	// System-wide (unix)
	if runtime.GOOS != "windows" {
		addDir("/etc/" + appName)
	}

	return
}
