package configpaths_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Alia5/mousekeys/internal/configpaths"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCandidatePathsUserFirst(t *testing.T) {
	tests := []struct {
		user   string
		loader int
	}{
		{user: "/tmp/mk.json", loader: 0},
		{user: "/tmp/mk", loader: 0},
		{user: "/tmp/mk.yml", loader: 1},
		{user: "/tmp/mk.yaml", loader: 1},
		{user: "/tmp/mk.toml", loader: 2},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			j, y, m := configpaths.ConfigCandidatePaths(tt.user)
			lists := [][]string{j, y, m}
			for i, l := range lists {
				require.NotEmpty(t, l)
				if i == tt.loader {
					assert.Equal(t, tt.user, l[0])
				} else {
					assert.NotContains(t, l, tt.user)
				}
			}
		})
	}
}

func TestConfigCandidatePathsDefaults(t *testing.T) {
	j, y, m := configpaths.ConfigCandidatePaths("")
	home := configpaths.DefaultConfigDir()
	assert.Equal(t, "mousekeys", filepath.Base(home))
	assert.Contains(t, j, filepath.Join(home, "config.json"))
	assert.Contains(t, y, filepath.Join(home, "mousekeys.yml"))
	assert.Contains(t, m, filepath.Join(home, "config.toml"))
	if runtime.GOOS != "windows" {
		assert.Contains(t, y, "/etc/mousekeys/config.yaml")
	}
}

func TestDefaultNamedConfigPath(t *testing.T) {
	dir := configpaths.DefaultConfigDir()
	assert.Equal(t, filepath.Join(dir, "config.yaml"), configpaths.DefaultNamedConfigPath("config", "yml"))
	assert.Equal(t, filepath.Join(dir, "run.toml"), configpaths.DefaultNamedConfigPath("run", "toml"))
	assert.Equal(t, filepath.Join(dir, "run.json"), configpaths.DefaultNamedConfigPath("run", "ini"))
}
