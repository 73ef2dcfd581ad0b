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
	"errors"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/mccoysc/xchain-gov/governance"
)

var (
	testAdmin = common.HexToAddress("0x00000000000000000000000000000000000000ad")
	voterA    = common.HexToAddress("0x000000000000000000000000000000000000000a")
	voterB    = common.HexToAddress("0x000000000000000000000000000000000000000b")
	voterC    = common.HexToAddress("0x000000000000000000000000000000000000000c")
)

type testClock struct{ now uint64 }

func (c *testClock) Now() uint64 { return c.now }

const day = 24 * 60 * 60

// newTestEngine builds an engine with two proposals, a delegation and votes.
func newTestEngine(t *testing.T) (*governance.Engine, *testClock) {
	clock := &testClock{now: 1_000_000}
	e, err := governance.NewEngine(testAdmin, nil, clock)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	t.Cleanup(e.Close)

	for addr, power := range map[common.Address]uint64{voterA: 600, voterB: 500, voterC: 9} {
		if err := e.SetVotingPower(testAdmin, addr, uint256.NewInt(power)); err != nil {
			t.Fatalf("failed to set power: %v", err)
		}
	}
	if err := e.Delegate(voterC, voterA); err != nil {
		t.Fatalf("failed to delegate: %v", err)
	}
	id, err := e.CreateProposal(voterA, "Upgrade", "first", 2*day, uint256.NewInt(1000))
	if err != nil {
		t.Fatalf("failed to create proposal: %v", err)
	}
	if err := e.Vote(voterA, id, governance.ChoiceYes); err != nil {
		t.Fatalf("failed to vote: %v", err)
	}
	if err := e.Vote(voterB, id, governance.ChoiceNo); err != nil {
		t.Fatalf("failed to vote: %v", err)
	}
	if _, err := e.CreateProposal(voterB, "Second", "", day, uint256.NewInt(1)); err != nil {
		t.Fatalf("failed to create proposal: %v", err)
	}
	return e, clock
}

func TestStore_LoadEmpty(t *testing.T) {
	s := New(memorydb.New())
	defer s.Close()

	if _, err := s.LoadSnapshot(); err != ErrNoState {
		t.Errorf("expected error %v, got %v", ErrNoState, err)
	}
	count, err := s.EventCount()
	if err != nil || count != 0 {
		t.Errorf("expected empty audit trail, got %d, %v", count, err)
	}
}

func TestStore_SaveLoadSnapshot(t *testing.T) {
	e, clock := newTestEngine(t)
	s := New(memorydb.New())
	defer s.Close()

	want := e.Snapshot()
	if err := s.SaveSnapshot(want); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	got, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("snapshot mismatch\n got: %+v\nwant: %+v", got, want)
	}

	restored, err := governance.Restore(got, clock)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	defer restored.Close()
	if power := restored.GetEffectiveVotingPower(voterA); power.Uint64() != 609 {
		t.Errorf("expected effective power 609, got %s", power.Dec())
	}
}

func TestStore_RemovedVoterIsDeleted(t *testing.T) {
	e, _ := newTestEngine(t)
	s := New(memorydb.New())
	defer s.Close()

	if err := s.SaveSnapshot(e.Snapshot()); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if err := e.EmergencyRemoveVoter(testAdmin, voterB); err != nil {
		t.Fatalf("failed to remove voter: %v", err)
	}
	if err := s.SaveSnapshot(e.Snapshot()); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if ok, _ := s.db.Has(voterKey(voterB)); ok {
		t.Error("removed voter record should be deleted")
	}
	// vote history is kept
	if ok, _ := s.db.Has(historyKey(voterB)); !ok {
		t.Error("history of removed voter should be kept")
	}
	snap, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(snap.Voters) != 2 {
		t.Errorf("expected 2 voters, got %d", len(snap.Voters))
	}
	if snap.TotalPower.Uint64() != 609 {
		t.Errorf("expected total power 609, got %s", snap.TotalPower.Dec())
	}
}

func TestStore_UnsupportedVersion(t *testing.T) {
	e, _ := newTestEngine(t)
	s := New(memorydb.New())
	defer s.Close()

	snap := e.Snapshot()
	if err := s.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	s.db.Put(metaKey, mustEncode(t, &metaRecord{Version: schemaVersion + 1, Admin: testAdmin}))
	if _, err := s.LoadSnapshot(); !errors.Is(err, errUnsupportedVersion) {
		t.Errorf("expected version error, got %v", err)
	}
}

func TestStore_Events(t *testing.T) {
	e, _ := newTestEngine(t)
	s := New(memorydb.New())
	defer s.Close()

	events := []governance.Event{
		governance.VoteCastEvent{
			ProposalID: 1,
			Voter:      voterA,
			Choice:     governance.ChoiceYes,
			Power:      uint256.NewInt(609),
		},
		governance.PauseEvent{Admin: testAdmin, Paused: true},
	}
	if err := s.Commit(e.Snapshot(), events, 1234); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := s.AppendEvent(governance.ProposalCanceledEvent{ProposalID: 2, By: testAdmin, Emergency: true}, 1300); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	count, err := s.EventCount()
	if err != nil || count != 3 {
		t.Fatalf("expected 3 events, got %d, %v", count, err)
	}
	entries, err := s.Events(0)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Seq != uint64(i+1) {
			t.Errorf("entry %d: expected seq %d, got %d", i, i+1, entry.Seq)
		}
		if entry.Name != entry.Event.EventName() {
			t.Errorf("entry %d: name %s does not match event %s", i, entry.Name, entry.Event.EventName())
		}
	}
	if entries[0].ID == entries[1].ID {
		t.Error("audit entries should have distinct ids")
	}
	if !reflect.DeepEqual(entries[0].Event, events[0]) {
		t.Errorf("event mismatch: got %+v, want %+v", entries[0].Event, events[0])
	}
	if entries[1].Time != 1234 || entries[2].Time != 1300 {
		t.Errorf("unexpected times %d, %d", entries[1].Time, entries[2].Time)
	}

	tail, err := s.Events(3)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(tail) != 1 || tail[0].Name != governance.EventProposalCanceled {
		t.Errorf("unexpected tail %+v", tail)
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Engine: EngineMemory})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.Close()

	if _, err := Open(Options{Engine: "rocksdb"}); err == nil {
		t.Error("expected error for unknown engine")
	}

	dir := t.TempDir()
	s, err = Open(Options{Engine: EngineLevelDB, Dir: dir, Cache: 16, Handles: 16})
	if err != nil {
		t.Fatalf("Open leveldb failed: %v", err)
	}
	e, _ := newTestEngine(t)
	if err := s.SaveSnapshot(e.Snapshot()); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	s.Close()

	s, err = Open(Options{Engine: EngineLevelDB, Dir: dir, Cache: 16, Handles: 16})
	if err != nil {
		t.Fatalf("reopen leveldb failed: %v", err)
	}
	defer s.Close()
	snap, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap.ProposalCount != 2 {
		t.Errorf("expected 2 proposals, got %d", snap.ProposalCount)
	}
}

func mustEncode(t *testing.T, val interface{}) []byte {
	t.Helper()
	enc, err := rlp.EncodeToBytes(val)
	if err != nil {
		t.Fatal(err)
	}
	return enc
}
