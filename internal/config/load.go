package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/templates"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to TOML syntax, filesystem, or other loading errors).
// Callers can use errors.Is(err, ErrConfigValidation) to distinguish
// validation problems from other Load failure modes.
var ErrConfigValidation = errors.New("config validation failed")

// Load reads the config file at path and validates it. A missing file is
// not an error; the embedded default template is used instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadTemplateConfig()
	}
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigReadFileFmt, path, err)
	}
	return Parse(data, path)
}

// LoadTemplateConfig returns the embedded default config template as a
// validated Config.
func LoadTemplateConfig() (*Config, error) {
	data, err := templates.Read("config.toml")
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigFailedReadTemplateFmt, err)
	}
	return Parse(data, "template config.toml")
}

// Parse parses and validates config TOML data from a source identifier.
// data is the TOML content; source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w; "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return &cfg, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field rejection.
// This catches keys that toml.Unmarshal silently ignores, usually typos of
// the documented ones.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}
