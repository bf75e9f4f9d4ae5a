// Package config loads generator settings from defaults, an optional YAML
// file, APDUGEN_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/gregLibert/apdugen/pkg/apdu"
	"github.com/gregLibert/apdugen/pkg/codegen"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "apdugen.yaml"

// EnvPrefix marks the environment variables that override the file.
const EnvPrefix = "APDUGEN_"

// Config holds every setting of the generator.
type Config struct {
	Prefix       string `koanf:"prefix"`
	StatusType   string `koanf:"status_type"`
	StatusOK     string `koanf:"status_ok"`
	StatusNotOK  string `koanf:"status_not_ok"`
	IncludeGuard string `koanf:"include_guard"`
	Include      string `koanf:"include"`
	TraceMacro   string `koanf:"trace_macro"`
	Banner       string `koanf:"banner"`

	LogLevel string `koanf:"log_level"`
	Verbose  bool   `koanf:"verbose"`

	// Tags gives byte values to symbolic table tags for describe and verify.
	Tags map[string]uint8 `koanf:"tags"`
}

// Load builds the configuration. Precedence, highest first: flags that were
// explicitly set, environment, config file, defaults.
// It returns the config file that was read, if any.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	def := codegen.DefaultOptions()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"prefix":        def.Prefix,
		"status_type":   def.StatusType,
		"status_ok":     def.StatusOK,
		"status_not_ok": def.StatusNotOK,
		"include_guard": def.IncludeGuard,
		"include":       def.Include,
		"trace_macro":   def.TraceMacro,
		"banner":        def.Banner,
		"log_level":     "info",
		"verbose":       false,
	}, "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// APDUGEN_STATUS_TYPE -> status_type
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, used, nil
}

// findConfigFile returns the explicit path, or DefaultFile when present.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that every emitted name is a C identifier and that the
// log level is known.
func (c *Config) Validate() error {
	required := []struct {
		key, value string
	}{
		{"status_type", c.StatusType},
		{"status_ok", c.StatusOK},
		{"status_not_ok", c.StatusNotOK},
		{"include_guard", c.IncludeGuard},
	}
	for _, r := range required {
		if !identifier.MatchString(r.value) {
			return fmt.Errorf("%s must be a C identifier, got %q", r.key, r.value)
		}
	}

	if c.Prefix != "" && !identifier.MatchString(c.Prefix) {
		return fmt.Errorf("prefix must be a C identifier, got %q", c.Prefix)
	}
	if c.TraceMacro != "" && !identifier.MatchString(c.TraceMacro) {
		return fmt.Errorf("trace_macro must be a C identifier, got %q", c.TraceMacro)
	}
	if c.Include == "" || strings.ContainsAny(c.Include, "\"\n") {
		return fmt.Errorf("include must be a header name, got %q", c.Include)
	}
	for name := range c.Tags {
		if !identifier.MatchString(name) {
			return fmt.Errorf("tag name must be a C identifier, got %q", name)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level is the logging threshold. Verbose forces debug.
func (c *Config) Level() log.Level {
	if c.Verbose {
		return log.DebugLevel
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Codegen returns the emitter options.
func (c *Config) Codegen() codegen.Options {
	return codegen.Options{
		Prefix:       c.Prefix,
		StatusType:   c.StatusType,
		StatusOK:     c.StatusOK,
		StatusNotOK:  c.StatusNotOK,
		IncludeGuard: c.IncludeGuard,
		Include:      c.Include,
		TraceMacro:   c.TraceMacro,
		Banner:       c.Banner,
	}
}

// SymbolicTags returns the configured tag names.
func (c *Config) SymbolicTags() apdu.Tags {
	tags := make(apdu.Tags, len(c.Tags))
	for name, v := range c.Tags {
		tags[name] = v
	}
	return tags
}
