package streetgraph

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/voidshard/streetgraph/internal/lots"
)

// Config holds every tunable of the editor.
// Distances are in world units unless noted.
type Config struct {
	// AppName keys saved maps in Storage
	AppName string `yaml:"app_name"`

	// IntersectionTolerance is how close (in screen pixels) the pointer must
	// be to an intersection to snap / hover it.
	IntersectionTolerance float64 `yaml:"intersection_tolerance"`

	// StreetTolerance is how close (in screen pixels) the pointer must be
	// to a street centre line to hover it.
	StreetTolerance float64 `yaml:"street_tolerance"`

	// StreetWidth of newly created streets
	StreetWidth float64 `yaml:"street_width"`

	// MinStreetLength below which a drawn street is discarded on release
	MinStreetLength float64 `yaml:"min_street_length"`

	// GizmoRadius of the MoveControl drag handle (screen pixels)
	GizmoRadius float64 `yaml:"gizmo_radius"`

	// HistoryLimit is the max number of undoable actions, 0 is unlimited
	HistoryLimit int `yaml:"history_limit"`

	// Canvas size in pixels, used for rendering & street generation
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// StoragePath of the sqlite database, empty for in memory storage
	StoragePath string `yaml:"storage_path"`

	// SyncAddress of the remote websocket peer, host:port or a ws:// url.
	// Empty disables sync.
	SyncAddress string `yaml:"sync_address"`

	// Shortcuts override default bindings, chord -> command name.
	// Eg. "ctrl+shift+z": "redo"
	Shortcuts map[string]string `yaml:"shortcuts"`

	// Generator configures the random street layout
	Generator *GeneratorConfig `yaml:"generator"`

	// Districts configures the house lots of districts
	Districts *DistrictConfig `yaml:"districts"`
}

// DistrictConfig configures how districts are split into house lots.
type DistrictConfig struct {
	// MinimumHouseSide is the smallest side of a house lot.
	// Clamped to [MinHouseSide, MaxHouseSide] when applied.
	MinimumHouseSide float64 `yaml:"minimum_house_side"`

	// Seed for lot rng, 0 picks one at random
	Seed int64 `yaml:"seed"`
}

const (
	MinHouseSide = lots.MinSide
	MaxHouseSide = lots.MaxSide
)

// GeneratorConfig configures Generate.
type GeneratorConfig struct {
	// Seed for rng, 0 picks one at random
	Seed int64 `yaml:"seed"`

	// Sites is how many voronoi sites we attempt to place
	Sites int `yaml:"sites"`

	// MinSiteDistance between any two sites
	MinSiteDistance float64 `yaml:"min_site_distance"`

	// Margin keeps sites away from the canvas edge
	Margin float64 `yaml:"margin"`

	// Districts also adds a district for every voronoi cell
	Districts bool `yaml:"districts"`
}

// DefaultConfig returns a reasonable default Config.
func DefaultConfig() *Config {
	return &Config{
		AppName:               "map_editor",
		IntersectionTolerance: 10,
		StreetTolerance:       8,
		StreetWidth:           10,
		MinStreetLength:       5,
		GizmoRadius:           12,
		HistoryLimit:          200,
		Width:                 1000,
		Height:                1000,
		SyncAddress:           "127.0.0.1:8765",
		Shortcuts:             map[string]string{},
		Generator: &GeneratorConfig{
			Sites:           40,
			MinSiteDistance: 80,
			Margin:          20,
		},
		Districts: &DistrictConfig{
			MinimumHouseSide: 500,
		},
	}
}

// LoadConfig reads a yaml file over the top of DefaultConfig.
func LoadConfig(fpath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", fpath)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", fpath)
	}

	return cfg, cfg.Validate()
}

// Validate returns an error if settings are nonsensical
func (c *Config) Validate() error {
	if c.AppName == "" {
		return errors.Wrap(ErrInvalidConfig, "app_name is required")
	}
	if c.IntersectionTolerance < 0 || c.StreetTolerance < 0 {
		return errors.Wrap(ErrInvalidConfig, "tolerances must be >= 0")
	}
	if c.StreetWidth <= 0 {
		return errors.Wrap(ErrInvalidConfig, "street_width must be > 0")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "canvas %dx%d is empty", c.Width, c.Height)
	}
	if c.Generator == nil {
		c.Generator = DefaultConfig().Generator
	}
	if c.Districts == nil {
		c.Districts = DefaultConfig().Districts
	}
	if c.Districts.MinimumHouseSide <= 0 {
		return errors.Wrap(ErrInvalidConfig, "minimum_house_side must be > 0")
	}
	return nil
}
