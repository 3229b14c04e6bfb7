// handles the bundlecheck.yaml file and per-invocation settings
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the canonical configuration filename.
const ConfigFile = "bundlecheck.yaml"

// legacyFile is the pre-1.0 configuration filename. Its presence next to
// bundlecheck.yaml is surfaced as a deferred warning after a successful
// build rather than failing the run.
const legacyFile = ".bundlecheckrc"

// Config contains all tunable build parameters. File values can be
// overridden by CLI flags; the CLI-only fields never come from YAML.
type Config struct {
	SourceDir   string   `yaml:"sourceDir"`   // Where entry points live (default: "src")
	OutputDir   string   `yaml:"outputDir"`   // Where bundles are emitted (default: "build")
	EntryPoints []string `yaml:"entryPoints"` // Explicit entries; empty means scan SourceDir
	Minify      bool     `yaml:"minify"`      // Minify and hash output names (default: true)

	WatchInterval time.Duration `yaml:"watchInterval"` // Watch-mode poll interval (default: 200ms)

	// CLI-only settings.
	Debug   bool `yaml:"-"`
	Watch   bool `yaml:"-"`
	Analyze bool `yaml:"-"`

	warning string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		SourceDir:     "src",
		OutputDir:     "build",
		Minify:        true,
		WatchInterval: 200 * time.Millisecond,
	}
}

// Load reads bundlecheck.yaml from the working directory. A missing file
// yields the defaults; a malformed file is a hard error, reported before
// any build work starts.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.checkLegacy()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.validate()
	cfg.checkLegacy()
	return cfg, nil
}

// validate ensures configuration values are within reasonable bounds.
func (c *Config) validate() {
	if c.SourceDir == "" {
		c.SourceDir = "src"
	}
	if c.OutputDir == "" {
		c.OutputDir = "build"
	}
	if c.WatchInterval < 10*time.Millisecond {
		c.WatchInterval = 10 * time.Millisecond
	}
	if c.WatchInterval > 5*time.Second {
		c.WatchInterval = 5 * time.Second
	}
}

func (c *Config) checkLegacy() {
	if _, err := os.Stat(legacyFile); err == nil {
		c.warning = fmt.Sprintf("Ignoring %s: configuration is read from %s.", legacyFile, ConfigFile)
	}
}

// PendingWarning returns the deferred configuration warning to surface after
// a successful build, or "" when there is nothing to report. Queried once
// per successful build.
func (c *Config) PendingWarning() string {
	return c.warning
}
