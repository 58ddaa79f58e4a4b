package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	mterrors "github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
level_spacing = 180
grid_size = 20
id_prefix = "idea"

[autosave]
interval = "45s"
enabled = false

[render]
margin = 10

[serve]
addr = ":9000"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LevelSpacing != 180 || cfg.GridSize != 20 || cfg.IDPrefix != "idea" {
		t.Errorf("top-level = %+v", cfg)
	}
	if cfg.Autosave.Interval.Duration != 45*time.Second || cfg.Autosave.Enabled {
		t.Errorf("autosave = %+v", cfg.Autosave)
	}
	if cfg.Render.Margin != 10 {
		t.Errorf("render.margin = %v", cfg.Render.Margin)
	}
	// Unset keys keep their defaults.
	if cfg.Render.NodeWidth != DefaultConfig().Render.NodeWidth {
		t.Errorf("render.node_width = %v, want default", cfg.Render.NodeWidth)
	}
	if cfg.HistoryLimit != DefaultConfig().HistoryLimit {
		t.Errorf("history_limit = %v, want default", cfg.HistoryLimit)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("serve.addr = %q", cfg.Serve.Addr)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `level_spacing = `},
		{"unknown key", `level_spacin = 100`},
		{"bad duration", "[autosave]\ninterval = \"soon\""},
		{"short interval", "[autosave]\ninterval = \"10ms\""},
		{"negative spacing", `level_spacing = -1`},
		{"bad prefix", `id_prefix = "9lives"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("LoadConfig() error = nil")
			}
			if !mterrors.Is(err, mterrors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	want := DefaultConfig()
	want.LevelSpacing = 300
	want.Autosave.Interval = duration{2 * time.Minute}

	if err := WriteConfig(path, want); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.LevelSpacing != layout.DefaultLevelSpacing {
		t.Errorf("LevelSpacing = %v", cfg.LevelSpacing)
	}
}
