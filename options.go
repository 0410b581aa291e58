package structura

import (
	"github.com/charmbracelet/log"

	"github.com/structura-io/structura/config"
)

// Option configures a Structurer.
type Option func(*Structurer)

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Structurer) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithTunables replaces every stage threshold at once, typically from a
// config file loaded with config.Load.
func WithTunables(t config.Tunables) Option {
	return func(s *Structurer) {
		s.tunables = t
	}
}

// WithWorkers bounds page-level parallelism. Values below one fall back
// to one worker per CPU.
func WithWorkers(n int) Option {
	return func(s *Structurer) {
		s.tunables.Workers = n
	}
}

// WithTableHeaders overrides the detected header row for tables found on
// the given 0-based page. The detected first row is demoted to a data
// row.
func WithTableHeaders(page int, headers []string) Option {
	return func(s *Structurer) {
		if s.headerOverrides == nil {
			s.headerOverrides = make(map[int][]string)
		}
		s.headerOverrides[page] = append([]string(nil), headers...)
	}
}
