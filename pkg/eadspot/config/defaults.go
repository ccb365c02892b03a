package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
)

// Defaults are recognition-tuning defaults loaded from a YAML file.
// Flags given on the command line win over file values.
type Defaults struct {
	Service          string   `yaml:"service"`
	Confidence       *float64 `yaml:"confidence"`
	Support          *int     `yaml:"support"`
	Types            string   `yaml:"types"`
	ContextPad       *int     `yaml:"context_pad"`
	GeoNamesUsername string   `yaml:"geonames_username"`
}

// LoadDefaults loads tuning defaults from a YAML file.
func LoadDefaults(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	return &d, nil
}

// Apply fills unset config fields from the defaults file.
func (c *Config) Apply(d *Defaults) {
	if d == nil {
		return
	}
	if c.ServiceURL == "" && d.Service != "" {
		c.ServiceURL = d.Service
	}
	if c.Confidence == 0 && d.Confidence != nil {
		c.Confidence = *d.Confidence
	}
	if c.Support == 0 && d.Support != nil {
		c.Support = *d.Support
	}
	if c.Types == "" && d.Types != "" {
		c.Types = d.Types
	}
	if c.ContextPad == 0 && d.ContextPad != nil {
		c.ContextPad = *d.ContextPad
	}
	if c.GeoNamesUsername == "" && d.GeoNamesUsername != "" {
		c.GeoNamesUsername = d.GeoNamesUsername
	}
}
