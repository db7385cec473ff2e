package commands

import (
	"clubgrid/internal/config"
)

// Flags holds the global command line options
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	SeedFile   string
}

// DefaultConfigPath is the --config default
func DefaultConfigPath() string {
	return config.DefaultPath()
}
