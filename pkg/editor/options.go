package editor

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/mindmap"
)

// Default option values.
const (
	DefaultGridSize     = 10.0
	DefaultHistoryLimit = 100
)

// Options configures an [Editor]. Zero values select the defaults.
type Options struct {
	// LevelSpacing is the radial distance between depths in the layout.
	LevelSpacing float64

	// GridSize snaps dragged positions to multiples of this value.
	// Negative disables snapping.
	GridSize float64

	// IDPrefix is the prefix of generated node IDs.
	IDPrefix string

	// HistoryLimit bounds the number of undo steps. Negative disables undo.
	HistoryLimit int

	Logger *log.Logger
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.LevelSpacing == 0 {
		o.LevelSpacing = layout.DefaultLevelSpacing
	}
	if o.GridSize == 0 {
		o.GridSize = DefaultGridSize
	}
	if o.IDPrefix == "" {
		o.IDPrefix = mindmap.DefaultPrefix
	}
	if o.HistoryLimit == 0 {
		o.HistoryLimit = DefaultHistoryLimit
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
