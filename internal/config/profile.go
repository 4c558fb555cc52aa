package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zoro11031/beef-tracer/create-animals/internal/animal"
)

// Profile is a YAML attribute set applied on top of the settings file.
//
//	owner: resource:org.acme.beef_network.Farmer#Fazendeiro_2
//	breed: Angus
//	location: Rio Verde/GO
//	weight: 120.00 Kg
type Profile struct {
	animal.Attributes `yaml:",inline"`
	Card              string `yaml:"card,omitempty"`
}

// LoadProfile reads a YAML profile from disk.
func LoadProfile(path string) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer file.Close()

	var profile Profile
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return &profile, nil
}

// SaveProfile persists a Profile as YAML.
func SaveProfile(path string, profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("nil profile")
	}
	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}
