package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation used when writing config files.
const yamlIndent = 2

// ToYAML serializes the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration. Unknown keys are rejected.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}
	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Format.PreserveMarkdown = clonePtr(c.Format.PreserveMarkdown)
	clone.Format.AlignArguments = clonePtr(c.Format.AlignArguments)
	clone.Format.TrimTrailingWhitespace = clonePtr(c.Format.TrimTrailingWhitespace)
	clone.Files.Extensions = slices.Clone(c.Files.Extensions)
	clone.Files.Ignore = slices.Clone(c.Files.Ignore)
	clone.Files.Hidden = clonePtr(c.Files.Hidden)
	clone.Output.ContextLines = clonePtr(c.Output.ContextLines)
	clone.LSP = LSPConfig{
		Completion:          clonePtr(c.LSP.Completion),
		Hover:               clonePtr(c.LSP.Hover),
		SignatureHelp:       clonePtr(c.LSP.SignatureHelp),
		DiagnosticsOnChange: clonePtr(c.LSP.DiagnosticsOnChange),
	}

	if c.Rules != nil {
		clone.Rules = make(map[string]RuleConfig, len(c.Rules))
		for id, rc := range c.Rules {
			clone.Rules[id] = RuleConfig{
				Enabled:  clonePtr(rc.Enabled),
				Severity: clonePtr(rc.Severity),
			}
		}
	}

	return &clone
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
