// Package preset loads named arena configurations from YAML files.
package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/progression"
)

// DefaultID names the built-in preset returned by Default.
const DefaultID = "default"

// Preset is a named pair of progression and combat settings.
//
// Fields absent from a preset file keep their default values.
type Preset struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Progression progression.Config `yaml:"progression"`
	Combat      combat.Config      `yaml:"combat"`
}

// Default returns the built-in preset made of the stock settings.
func Default() *Preset {
	return &Preset{
		ID:          DefaultID,
		Name:        "Default",
		Description: "Stock arena settings.",
		Progression: progression.DefaultConfig(),
		Combat:      combat.DefaultConfig(),
	}
}

// Validate checks the preset's ID and both configuration sections.
//
// Postcondition: Returns nil or an error wrapping every section failure.
func (p *Preset) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if err := p.Progression.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.Combat.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("preset %q: %w", p.ID, errors.Join(errs...))
}

// Parse decodes one preset document, overlaying it on the stock settings.
//
// Postcondition: Returns a validated preset or a non-nil error.
func Parse(data []byte) (*Preset, error) {
	p := Default()
	p.ID, p.Name, p.Description = "", "", ""
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadPresets reads all .yaml files in dir and parses each as a Preset.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed presets sorted by ID (may be empty) or a non-nil error.
func LoadPresets(dir string) ([]*Preset, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	presets := make([]*Preset, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		p, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing preset file %s: %w", path, err)
		}
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
