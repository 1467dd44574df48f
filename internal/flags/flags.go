// Package flags holds the feature toggles read from the `flags:` config map.
// A registry is read-only once built; unknown names are reported as disabled.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/sled/internal/log"
)

const (
	// FlagForwardDelete makes the Delete key (ESC [ 3 ~) remove the byte under
	// the cursor. When off the sequence decodes as an unrecognized key.
	FlagForwardDelete = "forward-delete"

	// FlagClearOnExit erases the edit line from the terminal when the session
	// ends, so the mode indicator does not linger above the shell prompt.
	FlagClearOnExit = "clear-on-exit"
)

// Defaults returns the built-in flag values.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagForwardDelete: true,
		FlagClearOnExit:   true,
	}
}

// Registry holds feature flag state.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from Defaults overlaid with overrides.
func New(overrides map[string]bool) *Registry {
	flags := Defaults()
	for name, value := range overrides {
		if _, known := flags[name]; !known {
			log.Warn(log.CatConfig, "Ignoring unknown feature flag", "flag", name)
			continue
		}
		flags[name] = value
	}
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "Feature flags initialized", "flags", r.All())
	return r
}

// Enabled reports whether the named flag is on.
// Unknown flags and a nil registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// Names returns the known flag names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.flags))
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}
