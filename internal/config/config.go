// Package config loads the protodyn command-line settings from a TOML file.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn"
)

const (
	OutputJSON = "json"
	OutputText = "text"
	OutputYAML = "yaml"
)

type Config struct {
	DescriptorSet string
	Type          string
	Package       string
	MaxDepth      int
	StrictTypes   bool
	Output        string
	Indent        string
	SortKeys      bool
	LogLevel      string
	Watch         bool
}

type fileConfig struct {
	DescriptorSet string `toml:"descriptor_set"`
	Type          string `toml:"type"`
	Package       string `toml:"package"`
	MaxDepth      int    `toml:"max_depth"`
	StrictTypes   bool   `toml:"strict_types"`
	Output        string `toml:"output"`
	Indent        string `toml:"indent"`
	SortKeys      bool   `toml:"sort_keys"`
	LogLevel      string `toml:"log_level"`
	Watch         bool   `toml:"watch"`
}

func Default() Config {
	return Config{
		MaxDepth: protodyn.DefaultMaxDepth,
		Output:   OutputJSON,
		Indent:   "  ",
		LogLevel: "info",
	}
}

// Load overlays the keys defined in the file at path onto Default. Unknown
// keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("descriptor_set") {
		cfg.DescriptorSet = strings.TrimSpace(raw.DescriptorSet)
	}
	if meta.IsDefined("type") {
		cfg.Type = strings.TrimSpace(raw.Type)
	}
	if meta.IsDefined("package") {
		cfg.Package = strings.TrimSpace(raw.Package)
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("strict_types") {
		cfg.StrictTypes = raw.StrictTypes
	}
	if meta.IsDefined("output") {
		cfg.Output = strings.ToLower(strings.TrimSpace(raw.Output))
	}
	if meta.IsDefined("indent") {
		cfg.Indent = raw.Indent
	}
	if meta.IsDefined("sort_keys") {
		cfg.SortKeys = raw.SortKeys
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	if meta.IsDefined("watch") {
		cfg.Watch = raw.Watch
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Output {
	case OutputJSON, OutputText, OutputYAML:
	default:
		return errors.Errorf("config: output %q is not one of json, text, yaml", c.Output)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.MaxDepth <= 0 {
		return errors.Errorf("config: max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.Watch && c.DescriptorSet == "" {
		return errors.New("config: watch requires descriptor_set")
	}
	return nil
}

// CodecOptions translates the codec settings into protodyn options.
func (c Config) CodecOptions() []protodyn.CodecOption {
	opts := []protodyn.CodecOption{protodyn.WithMaxDepth(c.MaxDepth)}
	if c.StrictTypes {
		opts = append(opts, protodyn.WithStrictTypes())
	}
	if c.Package != "" {
		opts = append(opts, protodyn.WithContextPackage(c.Package))
	}
	return opts
}
