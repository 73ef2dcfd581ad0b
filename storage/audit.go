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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/google/uuid"

	"github.com/mccoysc/xchain-gov/governance"
)

var errUnknownEvent = errors.New("unknown governance event")

// AuditEntry is one persisted engine event.
type AuditEntry struct {
	Seq   uint64    // 1-based position in the trail
	ID    uuid.UUID // unique id, stable across exports
	Name  string
	Time  uint64 // engine clock at commit
	Event governance.Event
}

func decodeAs[T governance.Event](payload []byte) (governance.Event, error) {
	var ev T
	if err := rlp.DecodeBytes(payload, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}

var eventDecoders = map[string]func([]byte) (governance.Event, error){
	governance.EventProposalCreated:       decodeAs[governance.ProposalCreatedEvent],
	governance.EventVoteCast:              decodeAs[governance.VoteCastEvent],
	governance.EventDelegation:            decodeAs[governance.DelegationEvent],
	governance.EventProposalExecuted:      decodeAs[governance.ProposalExecutedEvent],
	governance.EventProposalCanceled:      decodeAs[governance.ProposalCanceledEvent],
	governance.EventVotingPowerUpdated:    decodeAs[governance.VotingPowerUpdatedEvent],
	governance.EventVoterRemoved:          decodeAs[governance.VoterRemovedEvent],
	governance.EventQuorumUpdated:         decodeAs[governance.QuorumUpdatedEvent],
	governance.EventExecutionDelayUpdated: decodeAs[governance.ExecutionDelayUpdatedEvent],
	governance.EventDurationLimitsUpdated: decodeAs[governance.DurationLimitsUpdatedEvent],
	governance.EventPause:                 decodeAs[governance.PauseEvent],
}

// EventCount returns the number of audit entries stored.
func (s *Store) EventCount() (uint64, error) {
	ok, err := s.db.Has(eventCountKey)
	if err != nil || !ok {
		return 0, err
	}
	blob, err := s.db.Get(eventCountKey)
	if err != nil {
		return 0, err
	}
	if len(blob) != 8 {
		return 0, fmt.Errorf("%w: event counter %x", errCorruptKey, blob)
	}
	return binary.BigEndian.Uint64(blob), nil
}

func (s *Store) writeEvents(batch ethdb.Batch, events []governance.Event, now uint64) error {
	if len(events) == 0 {
		return nil
	}
	count, err := s.EventCount()
	if err != nil {
		return err
	}
	for _, ev := range events {
		payload, err := rlp.EncodeToBytes(ev)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", ev.EventName(), err)
		}
		enc, err := rlp.EncodeToBytes(&auditRecord{
			ID:      uuid.New(),
			Name:    ev.EventName(),
			Time:    now,
			Payload: payload,
		})
		if err != nil {
			return err
		}
		count++
		if err := batch.Put(eventKey(count), enc); err != nil {
			return err
		}
	}
	return batch.Put(eventCountKey, encodeNumber(count))
}

// Events returns the audit trail starting at sequence number from, oldest
// first. A from of 0 or 1 returns everything.
func (s *Store) Events(from uint64) ([]*AuditEntry, error) {
	var entries []*AuditEntry
	it := s.db.NewIterator(eventPrefix, encodeNumber(from))
	defer it.Release()

	for it.Next() {
		seq, err := keyNumber(it.Key()[len(eventPrefix):])
		if err != nil {
			return nil, err
		}
		var rec auditRecord
		if err := rlp.DecodeBytes(it.Value(), &rec); err != nil {
			return nil, fmt.Errorf("invalid audit entry %d: %w", seq, err)
		}
		decode, ok := eventDecoders[rec.Name]
		if !ok {
			return nil, fmt.Errorf("%w %q at %d", errUnknownEvent, rec.Name, seq)
		}
		ev, err := decode(rec.Payload)
		if err != nil {
			return nil, fmt.Errorf("invalid %s payload at %d: %w", rec.Name, seq, err)
		}
		entries = append(entries, &AuditEntry{
			Seq:   seq,
			ID:    rec.ID,
			Name:  rec.Name,
			Time:  rec.Time,
			Event: ev,
		})
	}
	return entries, it.Error()
}
