package manifest

import (
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/bmatcuk/doublestar/v4"
)

// Selector resolves the checks and path exclusions of a parsed manifest.
// A nil manifest selects nothing and excludes nothing.
type Selector struct {
	manifest *core.Manifest
}

// NewSelector returns a selector over m
func NewSelector(m *core.Manifest) *Selector {
	return &Selector{manifest: m}
}

// Checks returns the declared checks in manifest order.
func (s *Selector) Checks() []core.JobCheck {
	if s.manifest == nil {
		return nil
	}
	checks := make([]core.JobCheck, 0, len(s.manifest.Checks))
	for _, c := range s.manifest.Checks {
		var mounts []core.JobMount
		for _, m := range c.Mounts {
			kind := m.Kind
			if kind == "" {
				kind = core.MountFile
			}
			mounts = append(mounts, core.JobMount{Source: m.Source, Kind: kind, Target: m.Target})
		}
		checks = append(checks, core.JobCheck{
			Plugin: c.Plugin,
			Name:   PluginName(c.Plugin),
			Envs:   c.Envs,
			Mounts: mounts,
		})
	}
	return checks
}

// PathExcluded reports whether path matches one of the exclude patterns.
func (s *Selector) PathExcluded(path string) bool {
	if s.manifest == nil {
		return false
	}
	for _, pattern := range s.manifest.Exclude {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// MinPercent returns the coverage threshold, nil when none is declared.
func (s *Selector) MinPercent() *float64 {
	if s.manifest == nil || s.manifest.Coverage == nil {
		return nil
	}
	return s.manifest.Coverage.MinPercent
}
