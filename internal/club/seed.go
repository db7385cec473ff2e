package club

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clubgrid/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the start-up data set read from YAML
type Seed struct {
	Roles        []domain.Role        `yaml:"roles"`
	Courses      []domain.Course      `yaml:"courses"`
	Members      []domain.Member      `yaml:"members"`
	Consumptions []domain.Consumption `yaml:"consumptions"`
}

// ParseSeed decodes a YAML seed document
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// LoadSeed reads the seed file at path. An empty path yields the built-in
// demo data.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// DefaultSeed returns the built-in demo data
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}
