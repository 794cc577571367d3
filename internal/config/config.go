// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config reads the rind init configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bushyice/rind/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the location of the configuration file.
const DefaultPath = "/etc/rind.yaml"

// ErrInvalid is returned if a configuration value is not usable.
var ErrInvalid = errors.New("invalid configuration")

// Services configures the units directory.
type Services struct {
	// Path is the directory the unit descriptors are read from.
	Path string `yaml:"path"`

	// Watch enables reloading descriptors if they change.
	Watch bool `yaml:"watch"`
}

// Shell configures the console shell.
type Shell struct {
	// Exec is the shell binary. If empty, no shell is started.
	Exec string `yaml:"exec"`

	// TTY is the name of the terminal device in /dev.
	TTY string `yaml:"tty"`
}

// Control configures the control socket.
type Control struct {
	Socket string `yaml:"socket"`
}

// Reaper configures the child reaper.
type Reaper struct {
	// Interval is the time between two checks for terminated children.
	Interval time.Duration `yaml:"interval"`
}

// Network configures early network setup.
type Network struct {
	// Loopback brings the loopback interface up before units are loaded.
	Loopback bool `yaml:"loopback"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
}

// Config is the init configuration.
type Config struct {
	Services Services `yaml:"services"`
	Shell    Shell    `yaml:"shell"`
	Control  Control  `yaml:"control"`
	Reaper   Reaper   `yaml:"reaper"`
	Network  Network  `yaml:"network"`
	Log      Log      `yaml:"log"`
}

// Default returns the configuration used for all values not set in the file.
func Default() Config {
	return Config{
		Services: Services{
			Path: "/etc/services",
		},
		Shell: Shell{
			Exec: "/bin/sh",
			TTY:  "tty1",
		},
		Control: Control{
			Socket: "/tmp/rind.sock",
		},
		Reaper: Reaper{
			Interval: 100 * time.Millisecond,
		},
		Network: Network{
			Loopback: true,
		},
		Log: Log{
			Level: logging.DefaultLevel,
		},
	}
}

// Load reads the configuration file at the given path.
//
// A missing file is not an error, the [Default] configuration is returned
// instead.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse parses the given configuration file content on top of the [Default]
// configuration and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if !filepath.IsAbs(c.Services.Path) {
		return fmt.Errorf("%w: services path must be absolute: %q", ErrInvalid, c.Services.Path)
	}

	if c.Control.Socket == "" {
		return fmt.Errorf("%w: control socket must be set", ErrInvalid)
	}

	if c.Shell.Exec != "" && c.Shell.TTY == "" {
		return fmt.Errorf("%w: shell tty must be set", ErrInvalid)
	}

	if c.Reaper.Interval <= 0 {
		return fmt.Errorf("%w: reaper interval must be positive: %s", ErrInvalid, c.Reaper.Interval)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// TTYPath returns the path of the shell's terminal device.
func (s Shell) TTYPath() string {
	return filepath.Join("/dev", s.TTY)
}
