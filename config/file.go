package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML document at path onto cfg.  Keys absent
// from the file leave the existing values untouched; unknown keys are
// rejected so typos do not pass silently.
//
//	nick: WikiBot
//	alias: "!wb"
//	max_articles: 10
//	probe_timeout: 2s
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}
