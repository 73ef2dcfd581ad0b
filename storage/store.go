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


// Package storage persists governance engine state and its audit trail in a
// key-value database.
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/mccoysc/xchain-gov/governance"
)

var (
	// ErrNoState is returned by LoadSnapshot when nothing was ever saved.
	ErrNoState = errors.New("no governance state stored")

	errUnsupportedVersion = errors.New("unsupported storage schema version")
	errCorruptKey         = errors.New("corrupt storage key")
)

// Store reads and writes governance snapshots and audit events.
type Store struct {
	db ethdb.KeyValueStore
	mu sync.Mutex // serializes commits so event sequence numbers stay dense
}

// New wraps db. The store takes ownership and closes db in Close.
func New(db ethdb.KeyValueStore) *Store {
	return &Store{db: db}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot replaces the stored state with snap.
func (s *Store) SaveSnapshot(snap *governance.Snapshot) error {
	return s.Commit(snap, nil, 0)
}

// AppendEvent adds one entry to the audit trail.
func (s *Store) AppendEvent(ev governance.Event, now uint64) error {
	return s.Commit(nil, []governance.Event{ev}, now)
}

// Commit writes snap, when non-nil, and appends events to the audit trail in a
// single batch, so a crash never leaves one without the other.
func (s *Store) Commit(snap *governance.Snapshot, events []governance.Event, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.db.NewBatch()
	if snap != nil {
		if err := s.writeSnapshot(batch, snap); err != nil {
			return err
		}
	}
	if err := s.writeEvents(batch, events, now); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write governance state: %w", err)
	}
	return nil
}

func (s *Store) writeSnapshot(batch ethdb.Batch, snap *governance.Snapshot) error {
	keep := make(map[string]struct{})
	put := func(key []byte, val interface{}) error {
		enc, err := rlp.EncodeToBytes(val)
		if err != nil {
			return fmt.Errorf("failed to encode %x: %w", key, err)
		}
		keep[string(key)] = struct{}{}
		return batch.Put(key, enc)
	}
	meta := &metaRecord{
		Version:        schemaVersion,
		Admin:          snap.Admin,
		MinDuration:    snap.Params.MinProposalDuration,
		MaxDuration:    snap.Params.MaxProposalDuration,
		DefaultQuorum:  &snap.Params.DefaultQuorum,
		ExecutionDelay: snap.Params.ExecutionDelay,
		Paused:         snap.Paused,
		ProposalCount:  snap.ProposalCount,
		TotalPower:     &snap.TotalPower,
	}
	if err := put(metaKey, meta); err != nil {
		return err
	}
	for i := range snap.Proposals {
		p := &snap.Proposals[i]
		rec := &proposalRecord{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			Creator:      p.Creator,
			StartTime:    p.StartTime,
			EndTime:      p.EndTime,
			YesVotes:     &p.YesVotes,
			NoVotes:      &p.NoVotes,
			AbstainVotes: &p.AbstainVotes,
			Executed:     p.Executed,
			Canceled:     p.Canceled,
			Quorum:       &p.Quorum,
			MinDuration:  p.MinDuration,
			MaxDuration:  p.MaxDuration,
		}
		if err := put(proposalKey(p.ID), rec); err != nil {
			return err
		}
	}
	for i := range snap.Voters {
		v := &snap.Voters[i].Voter
		rec := &voterRecord{
			VotingPower:    &v.VotingPower,
			Delegate:       v.Delegate,
			IsDelegate:     v.IsDelegate,
			DelegatedPower: &v.DelegatedPower,
			HasVoted:       v.HasVoted,
			VotedProposal:  v.VotedProposal,
			LastChoice:     uint8(v.LastChoice),
			LastVoteTime:   v.LastVoteTime,
		}
		if err := put(voterKey(snap.Voters[i].Address), rec); err != nil {
			return err
		}
	}
	for _, entry := range snap.Delegators {
		if err := put(delegatorsKey(entry.Delegate), entry.Delegators); err != nil {
			return err
		}
	}
	for _, entry := range snap.Voted {
		if err := put(votedKey(entry.ProposalID), entry.Voters); err != nil {
			return err
		}
	}
	for _, entry := range snap.Histories {
		records := make([]voteRecord, len(entry.Records))
		for i := range entry.Records {
			r := &entry.Records[i]
			records[i] = voteRecord{
				ProposalID: r.ProposalID,
				Choice:     uint8(r.Choice),
				Power:      &r.Power,
				Timestamp:  r.Timestamp,
			}
		}
		if err := put(historyKey(entry.Voter), records); err != nil {
			return err
		}
	}
	// Drop records that no longer exist, such as removed voters
	for _, prefix := range [][]byte{proposalPrefix, voterPrefix, delegatorsPrefix, votedPrefix, historyPrefix} {
		if err := s.deleteStale(batch, prefix, keep); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) deleteStale(batch ethdb.Batch, prefix []byte, keep map[string]struct{}) error {
	it := s.db.NewIterator(prefix, nil)
	defer it.Release()

	for it.Next() {
		if _, ok := keep[string(it.Key())]; ok {
			continue
		}
		if err := batch.Delete(common.CopyBytes(it.Key())); err != nil {
			return err
		}
	}
	return it.Error()
}

// LoadSnapshot reads the stored state. It returns ErrNoState for an empty
// database.
func (s *Store) LoadSnapshot() (*governance.Snapshot, error) {
	ok, err := s.db.Has(metaKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoState
	}
	blob, err := s.db.Get(metaKey)
	if err != nil {
		return nil, err
	}
	var meta metaRecord
	if err := rlp.DecodeBytes(blob, &meta); err != nil {
		return nil, fmt.Errorf("invalid governance meta record: %w", err)
	}
	if meta.Version != schemaVersion {
		return nil, fmt.Errorf("%w: have %d, want %d", errUnsupportedVersion, meta.Version, schemaVersion)
	}
	snap := &governance.Snapshot{
		Admin: meta.Admin,
		Params: governance.Params{
			MinProposalDuration: meta.MinDuration,
			MaxProposalDuration: meta.MaxDuration,
			DefaultQuorum:       u256(meta.DefaultQuorum),
			ExecutionDelay:      meta.ExecutionDelay,
		},
		Paused:        meta.Paused,
		ProposalCount: meta.ProposalCount,
		TotalPower:    u256(meta.TotalPower),
	}
	err = s.iterate(proposalPrefix, func(_ []byte, val []byte) error {
		var rec proposalRecord
		if err := rlp.DecodeBytes(val, &rec); err != nil {
			return err
		}
		snap.Proposals = append(snap.Proposals, governance.Proposal{
			ID:           rec.ID,
			Title:        rec.Title,
			Description:  rec.Description,
			Creator:      rec.Creator,
			StartTime:    rec.StartTime,
			EndTime:      rec.EndTime,
			YesVotes:     u256(rec.YesVotes),
			NoVotes:      u256(rec.NoVotes),
			AbstainVotes: u256(rec.AbstainVotes),
			Executed:     rec.Executed,
			Canceled:     rec.Canceled,
			Quorum:       u256(rec.Quorum),
			MinDuration:  rec.MinDuration,
			MaxDuration:  rec.MaxDuration,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load proposals: %w", err)
	}
	err = s.iterate(voterPrefix, func(key []byte, val []byte) error {
		addr, err := keyAddress(key)
		if err != nil {
			return err
		}
		var rec voterRecord
		if err := rlp.DecodeBytes(val, &rec); err != nil {
			return err
		}
		snap.Voters = append(snap.Voters, governance.VoterEntry{
			Address: addr,
			Voter: governance.Voter{
				VotingPower:    u256(rec.VotingPower),
				Delegate:       rec.Delegate,
				IsDelegate:     rec.IsDelegate,
				DelegatedPower: u256(rec.DelegatedPower),
				HasVoted:       rec.HasVoted,
				VotedProposal:  rec.VotedProposal,
				LastChoice:     governance.Choice(rec.LastChoice),
				LastVoteTime:   rec.LastVoteTime,
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load voters: %w", err)
	}
	err = s.iterate(delegatorsPrefix, func(key []byte, val []byte) error {
		addr, err := keyAddress(key)
		if err != nil {
			return err
		}
		var list []common.Address
		if err := rlp.DecodeBytes(val, &list); err != nil {
			return err
		}
		snap.Delegators = append(snap.Delegators, governance.DelegatorsEntry{Delegate: addr, Delegators: list})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load delegators: %w", err)
	}
	err = s.iterate(votedPrefix, func(key []byte, val []byte) error {
		id, err := keyNumber(key)
		if err != nil {
			return err
		}
		var list []common.Address
		if err := rlp.DecodeBytes(val, &list); err != nil {
			return err
		}
		snap.Voted = append(snap.Voted, governance.VotedEntry{ProposalID: id, Voters: list})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load vote markers: %w", err)
	}
	err = s.iterate(historyPrefix, func(key []byte, val []byte) error {
		addr, err := keyAddress(key)
		if err != nil {
			return err
		}
		var list []voteRecord
		if err := rlp.DecodeBytes(val, &list); err != nil {
			return err
		}
		records := make([]governance.VoteRecord, len(list))
		for i, r := range list {
			records[i] = governance.VoteRecord{
				ProposalID: r.ProposalID,
				Choice:     governance.Choice(r.Choice),
				Power:      u256(r.Power),
				Timestamp:  r.Timestamp,
			}
		}
		snap.Histories = append(snap.Histories, governance.HistoryEntry{Voter: addr, Records: records})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load vote history: %w", err)
	}
	return snap, nil
}

// iterate calls fn for every entry under prefix in key order. The key passed
// to fn has the prefix stripped.
func (s *Store) iterate(prefix []byte, fn func(key, val []byte) error) error {
	it := s.db.NewIterator(prefix, nil)
	defer it.Release()

	for it.Next() {
		if err := fn(it.Key()[len(prefix):], it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}

func keyAddress(key []byte) (common.Address, error) {
	if len(key) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: %x", errCorruptKey, key)
	}
	return common.BytesToAddress(key), nil
}

func keyNumber(key []byte) (uint64, error) {
	if len(key) != 8 {
		return 0, fmt.Errorf("%w: %x", errCorruptKey, key)
	}
	return binary.BigEndian.Uint64(key), nil
}

func u256(x *uint256.Int) uint256.Int {
	if x == nil {
		return uint256.Int{}
	}
	return *x
}
