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


package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gofrs/flock"
	"github.com/urfave/cli/v2"

	"github.com/mccoysc/xchain-gov/governance"
	"github.com/mccoysc/xchain-gov/internal/config"
	"github.com/mccoysc/xchain-gov/storage"
)

var errNotInitialized = errors.New("governance state not initialized, run 'govctl init' first")

// session holds the data directory for the duration of one command.
type session struct {
	cfg    *config.Config
	lock   *flock.Flock
	store  *storage.Store
	engine *governance.Engine

	events chan governance.Event
	sub    event.Subscription
}

// openStore locks the data directory and opens the database.
func openStore(cfg *config.Config, readonly bool) (*flock.Flock, *storage.Store, error) {
	if cfg.DB.Engine == storage.EngineMemory {
		store, err := storage.Open(cfg.StorageOptions(readonly))
		return nil, store, err
	}
	if readonly {
		// read-only backends can not create a missing database
		if _, err := os.Stat(cfg.DBPath()); os.IsNotExist(err) {
			return nil, nil, errNotInitialized
		}
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, nil, err
	}
	lock := flock.New(cfg.LockPath())
	var (
		locked bool
		err    error
	)
	if readonly {
		locked, err = lock.TryRLock()
	} else {
		locked, err = lock.TryLock()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock datadir: %w", err)
	}
	if !locked {
		return nil, nil, fmt.Errorf("datadir %s is in use by another process", cfg.DataDir)
	}
	store, err := storage.Open(cfg.StorageOptions(readonly))
	if err != nil {
		lock.Unlock()
		return nil, nil, err
	}
	return lock, store, nil
}

// openSession restores the engine from the data directory. Read-only sessions
// share the lock with other readers.
func openSession(ctx *cli.Context, readonly bool) (*session, error) {
	cfg := configFrom(ctx)
	lock, store, err := openStore(cfg, readonly)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, lock: lock, store: store}

	snap, err := store.LoadSnapshot()
	if errors.Is(err, storage.ErrNoState) {
		s.close()
		return nil, errNotInitialized
	}
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to load governance state: %w", err)
	}
	s.engine, err = governance.Restore(snap, clockFrom(ctx))
	if err != nil {
		s.close()
		return nil, err
	}
	s.events = make(chan governance.Event, 16)
	s.sub = s.engine.SubscribeEvents(s.events)
	return s, nil
}

// commit persists the engine state together with the events it emitted.
func (s *session) commit() error {
	var events []governance.Event
drain:
	for {
		select {
		case ev := <-s.events:
			events = append(events, ev)
		default:
			break drain
		}
	}
	if err := s.store.Commit(s.engine.Snapshot(), events, s.engine.Now()); err != nil {
		return err
	}
	log.Debug("Governance state committed", "events", len(events))
	return nil
}

func (s *session) close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.engine != nil {
		s.engine.Close()
	}
	if err := s.store.Close(); err != nil {
		log.Error("Failed to close database", "err", err)
	}
	if s.lock != nil {
		s.lock.Unlock()
	}
}

// mutate runs fn against the engine and commits on success.
func mutate(ctx *cli.Context, fn func(e *governance.Engine, caller common.Address) error) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.close()

	if err := fn(s.engine, caller); err != nil {
		return err
	}
	return s.commit()
}

// query runs fn against a read-only engine.
func query(ctx *cli.Context, fn func(s *session) error) error {
	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.close()

	return fn(s)
}

func clockFrom(ctx *cli.Context) governance.Clock {
	if ctx.IsSet(nowFlag.Name) {
		return governance.FixedClock(ctx.Uint64(nowFlag.Name))
	}
	return governance.NewSystemClock()
}

func callerFrom(ctx *cli.Context) (common.Address, error) {
	if !ctx.IsSet(fromFlag.Name) {
		return common.Address{}, fmt.Errorf("--%s is required", fromFlag.Name)
	}
	return parseAddress(ctx.String(fromFlag.Name))
}
