// Package registry holds the best-effort lookup table of known members of
// Congress. It resolves party/chamber/state for politician names seen in
// filings and maps regulator-tracked members to their stable filing
// identifier (SEC CIK).
//
// The table is explicitly heuristic: a miss is not an error for identity
// resolution, which falls back to "Unknown" fields.
package registry

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed members.yaml
var membersYAML []byte

// ConfigurationError reports a known politician missing a required registry
// entry, e.g. a member flagged for regulator tracking without a CIK.
type ConfigurationError struct {
	Name  string
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("registry: member %q missing %s", e.Name, e.Field)
}

// Member is one known member of Congress.
type Member struct {
	Name     string `yaml:"name"`
	Party    string `yaml:"party"`
	Chamber  string `yaml:"chamber"`
	State    string `yaml:"state"`
	District string `yaml:"district,omitempty"`

	// CIK is the SEC Central Index Key, present for members whose filings
	// are enumerated through the regulator index.
	CIK string `yaml:"cik,omitempty"`

	// TrackFilings marks members the regulator connector must enumerate.
	TrackFilings bool `yaml:"track_filings,omitempty"`
}

// Registry is an in-memory member table with case-insensitive name lookup.
type Registry struct {
	members []Member
	byName  map[string]*Member
}

// Load parses the embedded member table.
func Load() (*Registry, error) {
	return Parse(membersYAML)
}

// Parse builds a Registry from YAML data. Exposed for tests that need a
// custom table.
func Parse(data []byte) (*Registry, error) {
	var members []Member
	if err := yaml.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("registry: parse members: %w", err)
	}

	r := &Registry{
		members: members,
		byName:  make(map[string]*Member, len(members)),
	}
	for i := range r.members {
		r.byName[nameKey(r.members[i].Name)] = &r.members[i]
	}
	return r, nil
}

// Find returns the member matching name, case-insensitively.
func (r *Registry) Find(name string) (*Member, bool) {
	m, ok := r.byName[nameKey(name)]
	return m, ok
}

// Tracked returns the members flagged for regulator filing enumeration.
func (r *Registry) Tracked() []Member {
	var out []Member
	for _, m := range r.members {
		if m.TrackFilings {
			out = append(out, m)
		}
	}
	return out
}

// FilingIdentity returns the stable filing identifier for a known member.
// A tracked member without a CIK yields a *ConfigurationError.
func (r *Registry) FilingIdentity(name string) (string, error) {
	m, ok := r.Find(name)
	if !ok {
		return "", &ConfigurationError{Name: name, Field: "registry entry"}
	}
	if m.CIK == "" {
		return "", &ConfigurationError{Name: name, Field: "cik"}
	}
	return m.CIK, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
