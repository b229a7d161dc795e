// Package config loads the toolkit configuration from a YAML file, the
// environment and flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"

	"github.com/kulturarv/wikibasekit/pkg/errors"
)

// Config is the toolkit configuration.
type Config struct {
	// QueryEndpoint is the SPARQL endpoint of the graph query service.
	QueryEndpoint string `yaml:"query_endpoint" mapstructure:"query_endpoint"`

	// TermsDSN is the DSN of the replicated terms table.
	TermsDSN string `yaml:"terms_dsn" mapstructure:"terms_dsn"`

	// Summary is the process-wide edit-summary suffix.
	Summary string `yaml:"summary" mapstructure:"summary"`

	// Language is the default working language for searches and previews.
	Language string `yaml:"language" mapstructure:"language"`

	// DryRun suppresses all remote writes.
	DryRun bool `yaml:"dry_run" mapstructure:"dry_run"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		QueryEndpoint: "https://query.wikidata.org/sparql",
		Language:      "en",
	}
}

// Load reads configuration: defaults, then the YAML file (when path is
// non-empty), then WBKIT_-prefixed environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewConfigError("file", "reading "+path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError("file", "parsing "+path, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("WBKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"query_endpoint", "terms_dsn", "summary", "language", "dry_run"} {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.NewConfigError("env", "binding "+key, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("env", "applying environment overrides", err)
	}

	if cfg.QueryEndpoint == "" {
		return nil, errors.NewConfigError("", "query endpoint must not be empty", nil)
	}
	return cfg, nil
}

// String renders the effective configuration with the DSN redacted.
func (c *Config) String() string {
	dsn := c.TermsDSN
	if dsn != "" {
		dsn = "<redacted>"
	}
	return fmt.Sprintf("endpoint=%s terms=%s language=%s dry_run=%t", c.QueryEndpoint, dsn, c.Language, c.DryRun)
}
