package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/htmlclean"
)

// Config represents the complete htmlclean configuration
type Config struct {
	// Policy maps tag names to permitted attributes. A null or empty
	// list allows the tag with no attributes. Nil keeps the default table.
	Policy map[string][]string `yaml:"policy"`
	// ExtendDefault merges Policy over the default table instead of
	// replacing it.
	ExtendDefault bool `yaml:"extend_default"`

	Unauthorized string    `yaml:"unauthorized"` // drop, escape, keep
	QuoteStyle   string    `yaml:"quote_style"`  // backslash, entity
	Filter       bool      `yaml:"filter"`       // escape all markup after sanitizing
	Log          LogConfig `yaml:"log"`
}

// LogConfig defines logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Unauthorized: "drop",
		QuoteStyle:   "backslash",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyEnvOverrides applies environment variable overrides
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HTMLCLEAN_UNAUTHORIZED"); v != "" {
		c.Unauthorized = v
	}
	if v := os.Getenv("HTMLCLEAN_QUOTE_STYLE"); v != "" {
		c.QuoteStyle = v
	}
	if v := os.Getenv("HTMLCLEAN_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTMLCLEAN_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

var (
	tagNamePattern  = regexp.MustCompile(`^[A-Za-z]\w*$`)
	attrNamePattern = regexp.MustCompile(`^[^\s"'>/=]+$`)
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	for tag, attrs := range c.Policy {
		if !tagNamePattern.MatchString(tag) {
			return fmt.Errorf("policy: invalid tag name %q", tag)
		}
		for _, a := range attrs {
			if !attrNamePattern.MatchString(a) {
				return fmt.Errorf("policy.%s: invalid attribute name %q", tag, a)
			}
		}
	}
	if c.ExtendDefault && c.Policy == nil {
		return fmt.Errorf("extend_default requires a policy section")
	}

	switch c.Unauthorized {
	case "drop", "escape", "keep":
	default:
		return fmt.Errorf("unauthorized must be one of: drop, escape, keep")
	}

	switch c.QuoteStyle {
	case "backslash", "entity":
	default:
		return fmt.Errorf("quote_style must be one of: backslash, entity")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format must be one of: json, console")
	}

	return nil
}

// Table returns the effective tag table.
func (c *Config) Table() map[string][]string {
	if c.Policy == nil {
		return htmlclean.BasicTags()
	}
	table := make(map[string][]string)
	if c.ExtendDefault {
		table = htmlclean.BasicTags()
	}
	for tag, attrs := range c.Policy {
		table[strings.ToLower(tag)] = attrs
	}
	return table
}

// BuildPolicy compiles the effective policy.
func (c *Config) BuildPolicy() *htmlclean.Policy {
	if c.Policy == nil && c.QuoteStyle != "entity" {
		return htmlclean.DefaultPolicy()
	}
	var opts []htmlclean.PolicyOption
	if c.QuoteStyle == "entity" {
		opts = append(opts, htmlclean.WithQuoteEscaper(htmlclean.EntityQuotes))
	}
	return htmlclean.NewPolicy(c.Table(), opts...)
}

// Fallback returns the handler for disallowed tags.
func (c *Config) Fallback() htmlclean.Fallback {
	switch c.Unauthorized {
	case "escape":
		return htmlclean.Escape
	case "keep":
		return htmlclean.Keep
	default:
		return htmlclean.Drop
	}
}
