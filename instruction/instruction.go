// Package instruction resolves agent instruction text through a two-tier
// source: an optional per-agent override file, then a registered hardcoded
// default. Resolution happens once at descriptor construction time; the
// fallback is an explicit, observable code path and never an error.
package instruction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/campusmesh/campusmesh/logging"
)

// Options holds overrides passed to NewSource().
type Options struct {
	Logger logging.Logger
}

// Source resolves instruction text for agents. Override files are looked up
// as instructions_<AgentName>.txt under Dir; spaces in agent names map to
// underscores.
type Source struct {
	dir      string
	defaults map[string]string
	logger   logging.Logger
}

// NewSource creates a Source reading overrides from dir (may be empty to
// disable file lookups) with the given hardcoded defaults.
func NewSource(dir string, defaults map[string]string, optFns ...func(o *Options)) *Source {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	d := make(map[string]string, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}

	return &Source{dir: dir, defaults: d, logger: opts.Logger}
}

// Lookup returns the instruction text for the agent and whether it came from
// an override file. It never fails: absence of both tiers yields an empty
// default.
func (s *Source) Lookup(agentName string) (string, bool) {
	if s.dir != "" {
		path := filepath.Join(s.dir, s.filename(agentName))
		if data, err := os.ReadFile(path); err == nil {
			text := strings.TrimSpace(string(data))
			if text != "" {
				return text, true
			}
		}
	}

	return s.defaults[agentName], false
}

// Resolve returns the instruction text, logging which tier supplied it.
func (s *Source) Resolve(agentName string) string {
	text, fromFile := s.Lookup(agentName)
	if fromFile {
		s.logger.Info("instruction.resolved.file", "agent", agentName)
	} else {
		s.logger.Debug("instruction.resolved.default", "agent", agentName)
	}
	return text
}

func (s *Source) filename(agentName string) string {
	return fmt.Sprintf("instructions_%s.txt", strings.ReplaceAll(agentName, " ", "_"))
}
