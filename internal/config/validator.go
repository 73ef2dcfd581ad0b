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


package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/mccoysc/xchain-gov/governance"
	"github.com/mccoysc/xchain-gov/storage"
)

// Environment variables that override the configuration file
const (
	EnvAdmin     = "XCHAIN_GOV_ADMIN"
	EnvDataDir   = "XCHAIN_GOV_DATADIR"
	EnvDBEngine  = "XCHAIN_GOV_DB_ENGINE"
	EnvVerbosity = "XCHAIN_GOV_VERBOSITY"
	EnvLogFile   = "XCHAIN_GOV_LOG_FILE"
)

var errNoAdmin = errors.New("no administrator configured")

// ApplyEnv overrides fields with any XCHAIN_GOV_* variables that are set.
func (c *Config) ApplyEnv() error {
	c.Admin = getEnvOrDefault(EnvAdmin, c.Admin)
	c.DataDir = getEnvOrDefault(EnvDataDir, c.DataDir)
	c.DB.Engine = getEnvOrDefault(EnvDBEngine, c.DB.Engine)
	c.Log.File = getEnvOrDefault(EnvLogFile, c.Log.File)

	if v := os.Getenv(EnvVerbosity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvVerbosity, v, err)
		}
		c.Log.Verbosity = n
	}
	return nil
}

// getEnvOrDefault retrieves an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks the configuration for consistency. The administrator is
// not required here since only init needs it.
func (c *Config) Validate() error {
	if c.DataDir == "" && c.DB.Engine != storage.EngineMemory {
		return errors.New("datadir is required for a persistent database")
	}
	switch c.DB.Engine {
	case storage.EngineLevelDB, storage.EnginePebble, storage.EngineMemory:
	default:
		return fmt.Errorf("unknown database engine %q", c.DB.Engine)
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		return fmt.Errorf("verbosity %d out of range 0..5", c.Log.Verbosity)
	}
	if c.Admin != "" {
		if _, err := c.AdminAddress(); err != nil {
			return err
		}
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	return nil
}

// AdminAddress parses the configured administrator.
func (c *Config) AdminAddress() (common.Address, error) {
	if c.Admin == "" {
		return common.Address{}, errNoAdmin
	}
	if !common.IsHexAddress(c.Admin) {
		return common.Address{}, fmt.Errorf("invalid admin address %q", c.Admin)
	}
	addr := common.HexToAddress(c.Admin)
	if addr == (common.Address{}) {
		return common.Address{}, governance.ErrInvalidAdmin
	}
	return addr, nil
}

// Params converts the governance section into engine parameters.
func (c *Config) Params() (*governance.Params, error) {
	g := c.Governance
	for name, d := range map[string]time.Duration{
		"min_proposal_duration": g.MinProposalDuration,
		"max_proposal_duration": g.MaxProposalDuration,
		"execution_delay":       g.ExecutionDelay,
	} {
		if d < 0 || d%time.Second != 0 {
			return nil, fmt.Errorf("%s must be a non-negative whole number of seconds, got %v", name, d)
		}
	}
	quorum, err := uint256.FromDecimal(g.DefaultQuorum)
	if err != nil {
		return nil, fmt.Errorf("invalid default_quorum %q: %w", g.DefaultQuorum, err)
	}
	params := &governance.Params{
		MinProposalDuration: uint64(g.MinProposalDuration / time.Second),
		MaxProposalDuration: uint64(g.MaxProposalDuration / time.Second),
		DefaultQuorum:       *quorum,
		ExecutionDelay:      uint64(g.ExecutionDelay / time.Second),
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// StorageOptions returns the database options for the data directory.
func (c *Config) StorageOptions(readonly bool) storage.Options {
	return storage.Options{
		Engine:   c.DB.Engine,
		Dir:      c.DBPath(),
		Cache:    c.DB.Cache,
		Handles:  c.DB.Handles,
		ReadOnly: readonly,
	}
}
