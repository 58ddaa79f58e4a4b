package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindtower/pkg/autosave"
	"github.com/matzehuels/mindtower/pkg/editor"
	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/render"
)

// defaultServeAddr is the listen address of the layout service.
const defaultServeAddr = "127.0.0.1:7420"

// Config is the contents of config.toml. Missing keys keep their defaults.
type Config struct {
	LevelSpacing float64 `toml:"level_spacing"`
	GridSize     float64 `toml:"grid_size"`
	IDPrefix     string  `toml:"id_prefix"`
	HistoryLimit int     `toml:"history_limit"`

	Autosave AutosaveConfig `toml:"autosave"`
	Render   RenderConfig   `toml:"render"`
	Serve    ServeConfig    `toml:"serve"`
}

// AutosaveConfig configures the editor's background saver.
type AutosaveConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval duration `toml:"interval"`
	Dir      string   `toml:"dir"`
}

// RenderConfig configures the native SVG renderer.
type RenderConfig struct {
	Margin     float64 `toml:"margin"`
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
}

// ServeConfig configures the layout service.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// duration decodes TOML strings such as "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		LevelSpacing: layout.DefaultLevelSpacing,
		GridSize:     editor.DefaultGridSize,
		IDPrefix:     mindmap.DefaultPrefix,
		HistoryLimit: editor.DefaultHistoryLimit,
		Autosave: AutosaveConfig{
			Enabled:  true,
			Interval: duration{autosave.DefaultInterval},
		},
		Render: RenderConfig{
			Margin:     render.DefaultMargin,
			NodeWidth:  render.DefaultNodeWidth,
			NodeHeight: render.DefaultNodeHeight,
		},
		Serve: ServeConfig{Addr: defaultServeAddr},
	}
}

// LoadConfig reads path on top of [DefaultConfig]. Unknown keys are
// rejected so typos don't go unnoticed.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if c.LevelSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "level_spacing must be positive, got %v", c.LevelSpacing)
	}
	if err := errors.ValidateIDPrefix(c.IDPrefix); err != nil {
		return err
	}
	if c.Autosave.Interval.Duration < time.Second {
		return errors.New(errors.ErrCodeInvalidInput, "autosave.interval must be at least 1s, got %s", c.Autosave.Interval)
	}
	if c.Render.NodeWidth <= 0 || c.Render.NodeHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render node size must be positive")
	}
	return nil
}

func (c Config) editorOptions(logger *log.Logger) editor.Options {
	return editor.Options{
		LevelSpacing: c.LevelSpacing,
		GridSize:     c.GridSize,
		IDPrefix:     c.IDPrefix,
		HistoryLimit: c.HistoryLimit,
		Logger:       logger,
	}
}

func (c Config) svgOptions(title string) []render.SVGOption {
	opts := []render.SVGOption{
		render.WithMargin(c.Render.Margin),
		render.WithNodeSize(c.Render.NodeWidth, c.Render.NodeHeight),
	}
	if title != "" {
		opts = append(opts, render.WithTitle(title))
	}
	return opts
}

// WriteConfig writes c to path in TOML.
func WriteConfig(path string, c Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
