// Package config loads polymorph settings from a TOML file and layers
// command line flags over them.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds all settings of a session.
type Config struct {
	Assets   Assets   `toml:"assets"`
	View     View     `toml:"view"`
	Colors   Colors   `toml:"colors"`
	Control  Control  `toml:"control"`
	Log      Log      `toml:"log"`
	Snapshot Snapshot `toml:"snapshot"`

	// dir is the directory of the loaded file; relative paths resolve
	// against it.
	dir string
}

// Assets names the two link templates. An empty path selects the built-in
// box geometry.
type Assets struct {
	Middle string `toml:"middle"`
	Branch string `toml:"branch"`
}

// View holds rendering and camera settings.
type View struct {
	FPS        int     `toml:"fps"`
	Background string  `toml:"background"` // "R,G,B"
	Distance   float64 `toml:"distance"`
	FOV        float64 `toml:"fov"` // degrees
}

// Colors are linear RGB triples in [0, 1].
type Colors struct {
	Middle    [3]float64 `toml:"middle"`
	Branch    [3]float64 `toml:"branch"`
	Highlight [3]float64 `toml:"highlight"`
	Selected  [3]float64 `toml:"selected"`
}

// Control tunes the angle control.
type Control struct {
	AngleStep float64 `toml:"angle_step"`
}

// Log selects where and how much to log. An empty file discards logs.
type Log struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Snapshot configures frame captures.
type Snapshot struct {
	Dir    string `toml:"dir"`
	Scale  int    `toml:"scale"`
	Format string `toml:"format"` // "webp" or "png"
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		View: View{
			FPS:        60,
			Background: "255,255,255",
			Distance:   5,
			FOV:        60,
		},
		Colors: Colors{
			Middle:    [3]float64{0, 0, 0},
			Branch:    [3]float64{0.5, 0, 1},
			Highlight: [3]float64{0.96470588, 0.59215686, 0.12156863},
			Selected:  [3]float64{0.012, 0.66, 0.95},
		},
		Control:  Control{AngleStep: 0.02},
		Log:      Log{Level: "info"},
		Snapshot: Snapshot{Dir: ".", Scale: 4, Format: "webp"},
	}
}

// Load reads a TOML config file over the defaults. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Middle     string
	Branch     string
	FPS        int
	Background string
	LogFile    string
	LogLevel   string
}

// Resolve applies non-empty flags over c and makes file-relative paths
// absolute. Flag paths are kept as given.
func (c *Config) Resolve(flags Flags) {
	c.Assets.Middle = c.relative(c.Assets.Middle)
	c.Assets.Branch = c.relative(c.Assets.Branch)
	c.Log.File = c.relative(c.Log.File)
	c.Snapshot.Dir = c.relative(c.Snapshot.Dir)

	if flags.Middle != "" {
		c.Assets.Middle = flags.Middle
	}
	if flags.Branch != "" {
		c.Assets.Branch = flags.Branch
	}
	if flags.FPS > 0 {
		c.View.FPS = flags.FPS
	}
	if flags.Background != "" {
		c.View.Background = flags.Background
	}
	if flags.LogFile != "" {
		c.Log.File = flags.LogFile
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
}

func (c *Config) relative(p string) string {
	if p == "" || c.dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.View.FPS <= 0:
		return fmt.Errorf("%w: fps %d must be positive", ErrInvalid, c.View.FPS)
	case c.View.Distance <= 0:
		return fmt.Errorf("%w: distance %g must be positive", ErrInvalid, c.View.Distance)
	case c.View.FOV <= 0 || c.View.FOV >= 180:
		return fmt.Errorf("%w: fov %g must be in (0, 180)", ErrInvalid, c.View.FOV)
	case c.Control.AngleStep <= 0 || c.Control.AngleStep > 1:
		return fmt.Errorf("%w: angle_step %g must be in (0, 1]", ErrInvalid, c.Control.AngleStep)
	case c.Snapshot.Scale < 1:
		return fmt.Errorf("%w: snapshot scale %d must be at least 1", ErrInvalid, c.Snapshot.Scale)
	}
	if f := c.Snapshot.Format; f != "webp" && f != "png" {
		return fmt.Errorf("%w: snapshot format %q", ErrInvalid, f)
	}
	if _, err := ParseRGB(c.View.Background); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for _, col := range []struct {
		name string
		rgb  [3]float64
	}{
		{"middle", c.Colors.Middle},
		{"branch", c.Colors.Branch},
		{"highlight", c.Colors.Highlight},
		{"selected", c.Colors.Selected},
	} {
		for _, v := range col.rgb {
			if v < 0 || v > 1 || math.IsNaN(v) {
				return fmt.Errorf("%w: color %s %v outside [0, 1]", ErrInvalid, col.name, col.rgb)
			}
		}
	}
	return nil
}

// Level parses the log level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return l, nil
}

// FOVRadians returns the vertical field of view in radians.
func (c Config) FOVRadians() float64 {
	return c.View.FOV * math.Pi / 180
}

// ParseRGB parses an "R,G,B" triple of 0-255 integers.
func ParseRGB(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("%w: color %q is not R,G,B", ErrInvalid, s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: color %q: %v", ErrInvalid, s, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}
