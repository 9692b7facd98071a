// Package config loads the optional vex.yaml project file. Values act
// as defaults for the corresponding command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the project configuration file that Load
// reads from the directory it is given; the vex command passes the
// current working directory.
const FileName = "vex.yaml"

// Config mirrors vex.yaml.
type Config struct {
	Output   string   `yaml:"output"`   // IR output path, default output.ll
	Opt      int      `yaml:"opt"`      // optimization level 0-3
	Emit     string   `yaml:"emit"`     // "", "ast", "ir"
	Warnings []string `yaml:"warnings"` // warning flags without the -W prefix
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{Output: "output.ll"}
}

// Load reads vex.yaml from dir. A missing file is not an error: the
// defaults are returned.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if cfg.Output == "" {
		cfg.Output = "output.ll"
	}
	return cfg, nil
}
