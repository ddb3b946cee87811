// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides the persisted key-value configuration for
// promptpad: a flat TOML file under the user's home directory, created with
// defaults on first run and overwritten wholesale on save.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/promptpad/internal/llm"
)

// Config holds every recognized configuration key. Temperature is kept as the
// raw string the user entered: a malformed value survives load and save, and
// is only dropped (with a warning) when a request is built.
type Config struct {
	APIURL         string `toml:"api_url"`
	Application    string `toml:"application"`
	APIKey         string `toml:"api_key"`
	Timeout        int    `toml:"timeout"`
	ResponseFormat string `toml:"response_format"`
	Model          string `toml:"model"`
	Temperature    string `toml:"temperature"`
	UseStream      bool   `toml:"use_stream"`
}

// Default returns the configuration written on first run. The API URL and
// application id are deployment-specific and start empty.
func Default() *Config {
	return &Config{
		Timeout:        60,
		ResponseFormat: string(llm.FormatText),
		Model:          llm.DefaultModelKey,
		Temperature:    "0.7",
		UseStream:      true,
	}
}

// RequestTimeout returns the configured timeout as a duration, falling back
// to the default when the value is not positive.
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return llm.DefaultTimeout
	}
	return time.Duration(c.Timeout) * time.Second
}

// Dir returns the promptpad configuration directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".promptpad")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("could not create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration file. A missing file is created with defaults
// on first run; unknown keys in the file are ignored and missing keys keep
// their defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveTo(cfg, path); err != nil {
			return nil, fmt.Errorf("could not create default config: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("could not decode config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration wholesale to the default path.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration wholesale to an explicit path. The file is
// written atomically with owner-only permissions since it may hold an API
// key.
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# promptpad configuration file")
	fmt.Fprintln(&buf, "")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	return atomicWriteFile(path, buf.Bytes(), 0600)
}

// atomicWriteFile writes via a temp file in the same directory plus rename,
// so the config is never left partially written.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create parent directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	tempPath := f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("could not sync config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("could not set config permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("could not replace config file: %w", err)
	}
	success = true
	return nil
}
