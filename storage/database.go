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


package storage

import (
	"fmt"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/ethdb/pebble"
	"github.com/ethereum/go-ethereum/log"
)

// Supported database backends
const (
	EngineLevelDB = "leveldb"
	EnginePebble  = "pebble"
	EngineMemory  = "memory"
)

// namespace prefixes the backend's internal metrics
const namespace = "govctl/db/"

// Options selects and tunes the database backend.
type Options struct {
	Engine   string // leveldb, pebble or memory
	Dir      string
	Cache    int // MB
	Handles  int
	ReadOnly bool
}

// Open opens the configured backend and wraps it in a Store.
func Open(opts Options) (*Store, error) {
	var (
		db  ethdb.KeyValueStore
		err error
	)
	switch opts.Engine {
	case EngineMemory:
		db = memorydb.New()
	case EngineLevelDB, "":
		db, err = leveldb.New(opts.Dir, opts.Cache, opts.Handles, namespace, opts.ReadOnly)
	case EnginePebble:
		db, err = pebble.New(opts.Dir, opts.Cache, opts.Handles, namespace, opts.ReadOnly)
	default:
		return nil, fmt.Errorf("unknown database engine %q", opts.Engine)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database at %s: %w", opts.Engine, opts.Dir, err)
	}
	log.Debug("Opened governance database", "engine", opts.Engine, "dir", opts.Dir, "readonly", opts.ReadOnly)
	return New(db), nil
}
