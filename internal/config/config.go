package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"
)

//go:embed config.yaml.tmpl
var Template []byte

type (
	StoreConfig struct {
		Driver string `yaml:"driver" validate:"required,oneof=memory sqlite"`
		Path   string `yaml:"path,omitempty"`
	}

	StylesheetConfig struct {
		Path string `yaml:"path,omitempty"`
		Lint string `yaml:"lint" validate:"oneof=off warn strict"`
	}

	ConditionConfig struct {
		OrSeed string `yaml:"or_seed" validate:"oneof=first-result identity"`
	}

	FontsConfig struct {
		APIURL string        `yaml:"api_url" validate:"required,url"`
		APIKey SecretString  `yaml:"api_key,omitempty"`
		TTL    time.Duration `yaml:"ttl" validate:"gt=0"`
	}

	Config struct {
		Version     int              `yaml:"version" validate:"eq=1"`
		OptionGroup string           `yaml:"option_group" validate:"required"`
		Trust       string           `yaml:"trust" validate:"oneof=standard elevated"`
		Store       StoreConfig      `yaml:"store"`
		Stylesheet  StylesheetConfig `yaml:"stylesheet"`
		Condition   ConditionConfig  `yaml:"condition"`
		Fonts       FontsConfig      `yaml:"fonts"`
		Logging     LoggingConfig    `yaml:"logging"`
	}
)

// crossChecks covers rules spanning several fields.
func crossChecks(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	if cfg.Store.Driver == "sqlite" && cfg.Store.Path == "" {
		sl.ReportError(cfg.Store.Path, "Path", "path", "required_for_sqlite", "")
	}
	if cfg.Logging.File.Level != "none" && cfg.Logging.File.Destination == "" {
		sl.ReportError(cfg.Logging.File.Destination, "Destination", "destination", "required_for_file_log", "")
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(crossChecks)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Load expands the embedded template for defaults and, when path is not
// empty, decodes the file on top of them before validating.
func Load(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(Template, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns the expanded default configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(Template)
}

// Dump marshals cfg with secrets masked.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
