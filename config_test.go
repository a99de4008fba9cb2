package streetgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(fpath, []byte(`
app_name: town
street_width: 6
history_limit: 50
storage_path: /tmp/maps.db
shortcuts:
  ctrl+shift+z: redo
generator:
  seed: 7
  sites: 12
`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(fpath)
	require.NoError(t, err)

	assert.Equal(t, "town", cfg.AppName)
	assert.Equal(t, 6.0, cfg.StreetWidth)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, "/tmp/maps.db", cfg.StoragePath)
	assert.Equal(t, map[string]string{"ctrl+shift+z": "redo"}, cfg.Shortcuts)
	assert.Equal(t, int64(7), cfg.Generator.Seed)
	assert.Equal(t, 12, cfg.Generator.Sites)

	// untouched settings keep their defaults
	assert.Equal(t, 10.0, cfg.IntersectionTolerance)
	assert.Equal(t, 1000, cfg.Width)

	e, err := New(cfg, nil)
	require.NoError(t, err)
	cmd, ok := e.Shortcuts().Lookup(MustChord("ctrl+shift+z"))
	assert.True(t, ok)
	assert.Equal(t, CmdRedo, cmd)
	_, ok = e.Shortcuts().Lookup(MustChord("ctrl+y"))
	assert.False(t, ok)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	fpath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(fpath, []byte("width: -1\n"), 0644))
	_, err = LoadConfig(fpath)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		edit func(c *Config)
		ok   bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"no app name", func(c *Config) { c.AppName = "" }, false},
		{"negative tolerance", func(c *Config) { c.StreetTolerance = -1 }, false},
		{"zero width street", func(c *Config) { c.StreetWidth = 0 }, false},
		{"empty canvas", func(c *Config) { c.Height = 0 }, false},
		{"no generator", func(c *Config) { c.Generator = nil }, true},
		{"no districts", func(c *Config) { c.Districts = nil }, true},
		{"zero house side", func(c *Config) { c.Districts.MinimumHouseSide = 0 }, false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				assert.NotNil(t, cfg.Generator)
				assert.NotNil(t, cfg.Districts)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			}
		})
	}
}
