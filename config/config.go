// Package config aggregates the pipeline's tunable thresholds into one
// struct that can be loaded from a TOML file. Every knob has a default;
// a config file only needs to name the values it overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/structura-io/structura/hybrid"
	"github.com/structura-io/structura/layout"
	"github.com/structura-io/structura/ocr"
	"github.com/structura-io/structura/tables"
)

// Tunables collects the configuration of every pipeline stage. TOML keys
// match the Go field names case-insensitively, e.g.:
//
//	workers = 4
//
//	[reading]
//	ColumnGapRatio = 0.2
//
//	[tables]
//	SnapTolerance = 2.0
type Tunables struct {
	// Workers bounds page-level parallelism. Zero means one worker
	// per CPU.
	Workers int `toml:"workers"`

	Reading layout.ReadingConfig `toml:"reading"`
	Heading layout.HeadingConfig `toml:"heading"`
	Tables  tables.Config        `toml:"tables"`
	Hybrid  hybrid.Config        `toml:"hybrid"`
	OCR     ocr.Config           `toml:"ocr"`
}

// Default returns the stage defaults with unbounded-by-CPU parallelism.
func Default() Tunables {
	return Tunables{
		Reading: layout.DefaultReadingConfig(),
		Heading: layout.DefaultHeadingConfig(),
		Tables:  tables.DefaultConfig(),
		Hybrid:  hybrid.DefaultConfig(),
		OCR:     ocr.DefaultConfig(),
	}
}

// Load reads a TOML file and overlays it on the defaults. Keys that do
// not correspond to any tunable are an error, so typos fail loudly
// instead of silently keeping a default.
func Load(path string) (Tunables, error) {
	t := Default()
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return Tunables{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Tunables{}, fmt.Errorf("loading config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return t, nil
}
