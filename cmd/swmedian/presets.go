package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset bundles a named radius/alpha pair so common filter strengths
// can be selected by name instead of by flag arithmetic.
type Preset struct {
	Name   string `yaml:"name"`
	Radius int    `yaml:"radius"`
	Alpha  int    `yaml:"alpha"`
}

// defaultPresets ships without a --presets file so the CLI is usable
// out of the box.
var defaultPresets = []Preset{
	{Name: "light", Radius: 1, Alpha: 0},
	{Name: "medium", Radius: 2, Alpha: 4},
	{Name: "heavy", Radius: 4, Alpha: 8},
}

// loadPresets reads presets from path, or returns defaultPresets if
// path is empty.
func loadPresets(path string) ([]Preset, error) {
	if path == "" {
		return defaultPresets, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("swmedian: reading presets: %w", err)
	}
	var presets []Preset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("swmedian: parsing presets: %w", err)
	}
	return presets, nil
}

func findPreset(presets []Preset, name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("swmedian: unknown preset %q", name)
}
