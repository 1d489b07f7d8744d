// Package cases provides the named neuron configuration presets.
// A Store is built once at startup from the built-in defaults plus any
// case files on disk, and is read-only afterwards.
package cases

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/neurokit/spikelab/internal/neuron"
	"gopkg.in/yaml.v3"
)

// ErrNotFound indicates a lookup of a preset name that does not exist.
var ErrNotFound = errors.New("case not found")

// Store is a read-only collection of named neuron presets.
type Store struct {
	cases map[string]neuron.Config
}

// baseline returns the healthy control parameters every preset starts
// from before its single deliberate fault.
func baseline(name string) neuron.Config {
	return neuron.Config{
		Name:             name,
		InitialVoltage:   -70,
		ThresholdVoltage: -55,
		SpikePeakVoltage: 30,
		ResetVoltage:     -70,
		StimulusPerStep:  5,
	}
}

// Defaults returns the built-in investigation cases: one fault per
// case, plus the healthy control.
func Defaults() []neuron.Config {
	highThreshold := baseline("high-threshold")
	highThreshold.ThresholdVoltage = -20

	lowThreshold := baseline("low-threshold")
	lowThreshold.ThresholdVoltage = -80

	poorReset := baseline("poor-reset")
	poorReset.ResetVoltage = -40

	weakStimulus := baseline("weak-stimulus")
	weakStimulus.StimulusPerStep = 2

	return []neuron.Config{
		highThreshold,
		lowThreshold,
		poorReset,
		weakStimulus,
		baseline("normal-control"),
	}
}

// NewStore builds a store from the built-in defaults.
func NewStore() *Store {
	s := &Store{cases: make(map[string]neuron.Config)}
	for _, c := range Defaults() {
		s.cases[c.Name] = c
	}
	return s
}

// caseFile is the on-disk shape of a user-provided case.
type caseFile struct {
	Name       string        `yaml:"name"`
	Parameters neuron.Config `yaml:"parameters"`
}

// LoadDir builds a store from the defaults plus every case_*.yaml file
// in dir. User files override defaults of the same name. A missing
// directory is not an error; a malformed or invalid case file is.
func LoadDir(dir string) (*Store, error) {
	s := NewStore()

	matches, err := filepath.Glob(filepath.Join(dir, "case_*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("globbing case files: %w", err)
	}

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading case file %s: %w", path, err)
		}

		var cf caseFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("parsing case file %s: %w", path, err)
		}
		if cf.Name == "" {
			return nil, fmt.Errorf("case file %s: missing name", path)
		}

		cfg := cf.Parameters
		cfg.Name = cf.Name
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("case file %s: %w", path, err)
		}

		s.cases[cfg.Name] = cfg
	}

	return s, nil
}

// Get returns the preset with the given name, or ErrNotFound.
func (s *Store) Get(name string) (neuron.Config, error) {
	cfg, ok := s.cases[name]
	if !ok {
		return neuron.Config{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return cfg, nil
}

// Names returns all preset names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.cases))
	for name := range s.cases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every preset, sorted by name.
func (s *Store) All() []neuron.Config {
	all := make([]neuron.Config, 0, len(s.cases))
	for _, name := range s.Names() {
		all = append(all, s.cases[name])
	}
	return all
}
