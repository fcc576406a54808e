// Package config loads a YAML network definition for cmd/cnsrun: which
// neurons exist, which collateral each of their dendrites listens on,
// which named built-in reaction implements each dendrite, and optional
// per-neuron concurrency caps (spec.md §6 "Network configuration
// document"). Reaction code itself can never come from YAML — config only
// selects among reactions compiled into the binary via the Registry in
// cns/reactions.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dendrite is one binding in a neuron's config: which collateral it
// reacts to and which named reaction implementation to bind.
type Dendrite struct {
	Collateral string `yaml:"collateral"`
	Reaction   string `yaml:"reaction"`
}

// Neuron is one neuron's config entry.
type Neuron struct {
	Name           string     `yaml:"name"`
	Outputs        []string   `yaml:"outputs"`
	Dendrites      []Dendrite `yaml:"dendrites"`
	MaxConcurrency int        `yaml:"maxConcurrency"`
}

// Network is the top-level document shape.
type Network struct {
	Neurons []Neuron `yaml:"neurons"`

	// DefaultConcurrency and AutoCleanupContexts map directly onto
	// cns.Options; Stimulation carries MaxHops separately since it is a
	// per-call, not per-engine, setting (spec.md §4).
	DefaultConcurrency  int  `yaml:"defaultConcurrency"`
	AutoCleanupContexts bool `yaml:"autoCleanupContexts"`
	MaxHops             int  `yaml:"maxHops"`
}

// Load reads and parses a network definition file.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var net Network
	if err := yaml.Unmarshal(data, &net); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(net.Neurons) == 0 {
		return nil, fmt.Errorf("config: %s declares no neurons", path)
	}
	return &net, nil
}
