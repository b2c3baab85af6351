// Package config loads the adapter's YAML configuration: logging setup plus
// an optional manifest of entries to create at host start.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"cssbus/entries"
	"cssbus/transform"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// ProcessorConfig names a transformation plugin with its options. Only
	// named processors can be declared in configuration - instances exist in
	// code only.
	ProcessorConfig struct {
		Name    string         `yaml:"name" validate:"required"`
		Options map[string]any `yaml:"options,omitempty"`
	}

	// EntryConfig declares an entry to be created when the manifest is
	// applied.
	EntryConfig struct {
		Name       string            `yaml:"name" validate:"required"`
		To         string            `yaml:"to,omitempty"`
		Map        bool              `yaml:"map,omitempty"`
		Processors []ProcessorConfig `yaml:"processors,omitempty" validate:"dive"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Logging LoggingConfig `yaml:"logging"`
		Entries []EntryConfig `yaml:"entries,omitempty" validate:"dive"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the expanded configuration template to
// provide sane defaults and performs validation. An empty path yields the
// defaults.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
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

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates the default configuration from the embedded template and
// returns it as a byte slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

// Dump serializes the active configuration back to YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// CreateEntries creates every declared entry on the manager. Descriptor
// resolution failures abort with the offending entry named.
func (cfg *Config) CreateEntries(m *entries.Manager) error {
	for _, e := range cfg.Entries {
		descs := make([]transform.Descriptor, 0, len(e.Processors))
		for _, p := range e.Processors {
			descs = append(descs, transform.Descriptor{Name: p.Name, Options: transform.Options(p.Options)})
		}
		if err := m.Create(e.Name, entries.CreateOptions{
			To:         e.To,
			Map:        e.Map,
			Processors: descs,
		}); err != nil {
			return fmt.Errorf("manifest entry '%s': %w", e.Name, err)
		}
	}
	return nil
}
