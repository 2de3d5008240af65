// Package profile loads governance profiles: the foundation statements
// that seed principle weights plus runtime knobs and sink configuration.
// A profile is read once at construction time.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/arbiterhq/arbiter/internal/awareness"
)

// Profile is a named bundle of foundation statements and runtime settings.
type Profile struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Foundation  []string         `yaml:"foundation"`
	Strictness  float64          `yaml:"strictness"`
	Learning    bool             `yaml:"learning"`
	Awareness   awareness.Config `yaml:"awareness"`
}

// Default returns the built-in default profile.
func Default() *Profile {
	p, err := Load("default")
	if err != nil {
		// The embedded default profile must parse; failing here is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("built-in default profile: %v", err))
	}
	return p
}

// Load loads a profile by name. Checks built-in profiles first, then
// falls back to ~/.arbiter/profiles/<name>.yaml.
func Load(name string) (*Profile, error) {
	if data, ok := builtinProfiles[name]; ok {
		var p Profile
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse built-in profile %q: %w", name, err)
		}
		return &p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("profile %q not found (no built-in, cannot determine home dir)", name)
	}

	path := filepath.Join(home, ".arbiter", "profiles", name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile %q not found", name)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %q: %w", name, err)
	}
	return &p, nil
}

// LoadFile loads a profile from an explicit path. An empty path returns
// the built-in default; a missing file is not an error, it also falls
// back to the default (configuration gaps are silently defaulted).
func LoadFile(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return p, nil
}

// List returns sorted names of all available profiles (built-in + user).
func List() []string {
	seen := make(map[string]bool)
	for name := range builtinProfiles {
		seen[name] = true
	}

	home, err := os.UserHomeDir()
	if err == nil {
		dir := filepath.Join(home, ".arbiter", "profiles")
		entries, err := os.ReadDir(dir)
		if err == nil {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				name := e.Name()
				if ext := filepath.Ext(name); ext == ".yaml" || ext == ".yml" {
					seen[name[:len(name)-len(ext)]] = true
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that a profile is well-formed.
func Validate(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if p.Strictness < 0 || p.Strictness > 1 {
		return fmt.Errorf("strictness must be within [0, 1], got %v", p.Strictness)
	}
	for i, w := range p.Awareness.Webhooks {
		if w.URL == "" {
			return fmt.Errorf("awareness.webhooks[%d]: url is required", i)
		}
	}
	if ps := p.Awareness.PubSub; ps != nil {
		if ps.Project == "" || ps.Topic == "" {
			return fmt.Errorf("awareness.pubsub: project and topic are required")
		}
	}
	return nil
}
