package main

import (
	"github.com/loykin/stationreg/internal/config"
)

// GlobalFlags holds persistent flags shared by all subcommands.
type GlobalFlags struct {
	ConfigPath string
	RunDir     string
}

// ListFlags holds flags for the list command.
type ListFlags struct {
	JSON      bool
	AliveOnly bool
}

// RegisterFlags holds flags for the register command; one per record field,
// pid defaulting to the calling process.
type RegisterFlags struct {
	Name        string
	CellCount   int
	TestType    string
	TestVersion string
	HTTPHost    string
	HTTPPort    int
	PID         int
}

// resolveConfig merges the optional config file with the global flags.
// Flag values win over the file.
func resolveConfig(g *GlobalFlags) (config.Config, error) {
	cfg := config.Default()
	if g.ConfigPath != "" {
		loaded, err := config.LoadConfig(g.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if g.RunDir != "" {
		cfg.RunDir = g.RunDir
	}
	return cfg, nil
}
