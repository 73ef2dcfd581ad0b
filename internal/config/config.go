// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.


// Package config loads the govctl configuration from a file, the environment
// and command line flags, in increasing order of priority.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mccoysc/xchain-gov/governance"
	"github.com/mccoysc/xchain-gov/storage"
)

// Config is the full govctl configuration
type Config struct {
	Admin      string           `toml:"admin" yaml:"admin"`     // administrator address, fixed at init
	DataDir    string           `toml:"datadir" yaml:"datadir"` // database and lock file location
	DB         DBConfig         `toml:"db" yaml:"db"`
	Governance GovernanceConfig `toml:"governance" yaml:"governance"`
	Log        LogConfig        `toml:"log" yaml:"log"`
}

// DBConfig selects the key-value backend
type DBConfig struct {
	Engine  string `toml:"engine" yaml:"engine"`   // leveldb, pebble or memory
	Cache   int    `toml:"cache" yaml:"cache"`     // MB
	Handles int    `toml:"handles" yaml:"handles"` // open file limit
}

// GovernanceConfig holds the initial engine parameters. They are only read
// by init; afterwards the administrator changes them through the engine.
type GovernanceConfig struct {
	MinProposalDuration time.Duration `toml:"min_proposal_duration" yaml:"min_proposal_duration"`
	MaxProposalDuration time.Duration `toml:"max_proposal_duration" yaml:"max_proposal_duration"`
	ExecutionDelay      time.Duration `toml:"execution_delay" yaml:"execution_delay"`
	DefaultQuorum       string        `toml:"default_quorum" yaml:"default_quorum"` // decimal
}

// LogConfig controls log output
type LogConfig struct {
	Verbosity  int    `toml:"verbosity" yaml:"verbosity"` // 0=silent .. 5=trace
	File       string `toml:"file" yaml:"file"`           // rotate JSON logs into this file
	MaxSize    int    `toml:"max_size" yaml:"max_size"`   // MB before rotation
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAge     int    `toml:"max_age" yaml:"max_age"` // days
	Compress   bool   `toml:"compress" yaml:"compress"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	defaults := governance.DefaultParams()
	return &Config{
		DataDir: defaultDataDir(),
		DB: DBConfig{
			Engine:  storage.EngineLevelDB,
			Cache:   16,
			Handles: 16,
		},
		Governance: GovernanceConfig{
			MinProposalDuration: time.Duration(defaults.MinProposalDuration) * time.Second,
			MaxProposalDuration: time.Duration(defaults.MaxProposalDuration) * time.Second,
			ExecutionDelay:      time.Duration(defaults.ExecutionDelay) * time.Second,
			DefaultQuorum:       defaults.DefaultQuorum.Dec(),
		},
		Log: LogConfig{
			Verbosity:  3,
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     30,
		},
	}
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".govctl")
	}
	return ".govctl"
}

// Load reads path on top of the defaults and then applies environment
// overrides. An empty path skips the file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bufio.NewReader(f))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && err != io.EOF {
			return fmt.Errorf("%s: %w", path, err)
		}
	default:
		md, err := toml.NewDecoder(bufio.NewReader(f)).Decode(c)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("%s: unknown field %q", path, undecoded[0].String())
		}
	}
	return nil
}

// Dump writes c in the given format, "toml" or "yaml".
func (c *Config) Dump(w io.Writer, format string) error {
	switch format {
	case "", "toml":
		return toml.NewEncoder(w).Encode(c)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown config format %q", format)
}

// DBPath is the database directory inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "govdata")
}

// LockPath is the file locked while a command holds the database.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "LOCK.govctl")
}
