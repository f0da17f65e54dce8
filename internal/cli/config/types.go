// Package config provides configuration management for the gitlabci-lint CLI.
//
// Values are layered with koanf, lowest to highest priority: built-in
// defaults, the project config file, GITLAB_TOKEN, GITLABCI_LINT_* variables
// and explicitly set flags. The positional URL argument is applied on top by
// the command itself.
package config

import (
	"time"

	intconfig "github.com/leapstack-labs/gitlabci-lint/internal/config"
)

// Config holds all CLI configuration options.
type Config struct {
	URL          string        `koanf:"url"`
	Token        string        `koanf:"token"`
	Timeout      time.Duration `koanf:"timeout"`
	OutputFormat string        `koanf:"output"`
	Verbose      bool          `koanf:"verbose"`
	// CIConfigPath overrides remote CI path discovery when set.
	CIConfigPath string `koanf:"ci_config_path"`

	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultURL     = intconfig.DefaultURL
	DefaultTimeout = intconfig.DefaultTimeout
	DefaultOutput  = intconfig.DefaultOutput
)

// WithURL returns a copy of c with URL replaced when url is non-empty.
func (c *Config) WithURL(url string) *Config {
	cp := *c
	if url != "" {
		cp.URL = url
	}
	return &cp
}
