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


package governance

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func TestProposalStore_Create(t *testing.T) {
	s := NewProposalStore()
	params := *DefaultParams()
	creator := common.HexToAddress("0x1")

	id, err := s.Create("Raise limits", "", 2*day, uint256.NewInt(1000), creator, 100, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 1 {
		t.Errorf("expected id 1, got %d", id)
	}

	p, err := s.Get(id)
	if err != nil {
		t.Fatalf("failed to get proposal: %v", err)
	}
	if p.StartTime != 100 || p.EndTime != 100+2*day {
		t.Errorf("unexpected window [%d, %d)", p.StartTime, p.EndTime)
	}
	if p.Creator != creator {
		t.Errorf("expected creator %v, got %v", creator, p.Creator)
	}
	if p.Quorum.Uint64() != 1000 {
		t.Errorf("expected quorum 1000, got %s", p.Quorum.Dec())
	}
	if p.MinDuration != params.MinProposalDuration || p.MaxDuration != params.MaxProposalDuration {
		t.Error("duration bounds snapshot not recorded")
	}
	if !p.TotalVotes().IsZero() || p.Executed || p.Canceled {
		t.Error("new proposal should start empty")
	}

	// Ids are sequential
	id2, _ := s.Create("Second", "", 2*day, uint256.NewInt(1), creator, 100, params)
	if id2 != 2 || s.Count() != 2 {
		t.Errorf("expected second id 2 and count 2, got %d and %d", id2, s.Count())
	}
}

func TestProposalStore_Create_Validation(t *testing.T) {
	params := *DefaultParams()
	creator := common.HexToAddress("0x1")
	quorum := uint256.NewInt(1)

	tests := []struct {
		name     string
		title    string
		duration uint64
		quorum   *uint256.Int
		now      uint64
		err      error
	}{
		{"empty title", "", day, quorum, 0, ErrEmptyTitle},
		{"too short", "t", day - 1, quorum, 0, ErrInvalidDuration},
		{"too long", "t", 30*day + 1, quorum, 0, ErrInvalidDuration},
		{"zero quorum", "t", day, new(uint256.Int), 0, ErrInvalidQuorum},
		{"nil quorum", "t", day, nil, 0, ErrInvalidQuorum},
		{"end overflows", "t", day, quorum, math.MaxUint64 - 10, ErrInvalidDuration},
		{"min bound", "t", day, quorum, 0, nil},
		{"max bound", "t", 30 * day, quorum, 0, nil},
	}
	for _, tt := range tests {
		s := NewProposalStore()
		_, err := s.Create(tt.title, "", tt.duration, tt.quorum, creator, tt.now, params)
		if err != tt.err {
			t.Errorf("%s: expected error %v, got %v", tt.name, tt.err, err)
		}
		if tt.err != nil && s.Count() != 0 {
			t.Errorf("%s: failed create must not consume an id", tt.name)
		}
	}
}

func TestProposalStore_GetNotFound(t *testing.T) {
	s := NewProposalStore()
	if _, err := s.Get(1); err != ErrProposalNotFound {
		t.Errorf("expected error %v, got %v", ErrProposalNotFound, err)
	}
	if _, err := s.Status(0, 0); err != ErrProposalNotFound {
		t.Errorf("expected error %v, got %v", ErrProposalNotFound, err)
	}
}

func TestProposalStore_Cancel(t *testing.T) {
	params := *DefaultParams()
	creator := common.HexToAddress("0x1")
	other := common.HexToAddress("0x2")

	s := NewProposalStore()
	id, _ := s.Create("t", "", day, uint256.NewInt(1), creator, 0, params)

	if err := s.Cancel(id, other, 10); err != ErrNotCreator {
		t.Errorf("expected error %v, got %v", ErrNotCreator, err)
	}
	if err := s.Cancel(id, creator, day); err != ErrVotingEnded {
		t.Errorf("expected error %v, got %v", ErrVotingEnded, err)
	}
	if err := s.Cancel(id, creator, day-1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state, _ := s.Status(id, 10); state != StateCanceled {
		t.Errorf("expected state %v, got %v", StateCanceled, state)
	}
	if err := s.Cancel(id, creator, 10); err != ErrProposalCanceled {
		t.Errorf("expected error %v, got %v", ErrProposalCanceled, err)
	}
}

func TestProposalStore_AdminCancel(t *testing.T) {
	params := *DefaultParams()
	s := NewProposalStore()
	id, _ := s.Create("t", "", day, uint256.NewInt(1), common.HexToAddress("0x1"), 0, params)

	// No window check for the admin path
	if err := s.AdminCancel(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AdminCancel(id); err != ErrProposalCanceled {
		t.Errorf("expected error %v, got %v", ErrProposalCanceled, err)
	}

	id2, _ := s.Create("t", "", day, uint256.NewInt(1), common.HexToAddress("0x1"), 0, params)
	p, _ := s.Get(id2)
	p.Executed = true
	if err := s.AdminCancel(id2); err != ErrProposalExecuted {
		t.Errorf("expected error %v, got %v", ErrProposalExecuted, err)
	}
	if err := s.AdminCancel(99); err != ErrProposalNotFound {
		t.Errorf("expected error %v, got %v", ErrProposalNotFound, err)
	}
}

func TestProposalStore_AllReturnsCopies(t *testing.T) {
	params := *DefaultParams()
	s := NewProposalStore()
	for i := 0; i < 3; i++ {
		s.Create("t", "", day, uint256.NewInt(1), common.HexToAddress("0x1"), 0, params)
	}
	all := s.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 proposals, got %d", len(all))
	}
	for i, p := range all {
		if p.ID != uint64(i+1) {
			t.Errorf("all[%d]: expected id %d, got %d", i, i+1, p.ID)
		}
	}
	all[0].Canceled = true
	if p, _ := s.Get(1); p.Canceled {
		t.Error("mutating a copy must not change the store")
	}
}
