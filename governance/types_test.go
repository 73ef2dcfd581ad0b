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
	"testing"

	"github.com/holiman/uint256"
)

func TestDefaultParams(t *testing.T) {
	params := DefaultParams()

	if params == nil {
		t.Fatal("params should not be nil")
	}

	if params.MinProposalDuration != 24*60*60 {
		t.Errorf("expected MinProposalDuration 1 day, got %d", params.MinProposalDuration)
	}

	if params.MaxProposalDuration != 30*24*60*60 {
		t.Errorf("expected MaxProposalDuration 30 days, got %d", params.MaxProposalDuration)
	}

	if params.ExecutionDelay != 24*60*60 {
		t.Errorf("expected ExecutionDelay 1 day, got %d", params.ExecutionDelay)
	}

	if params.DefaultQuorum.Uint64() != 1000 {
		t.Errorf("expected DefaultQuorum 1000, got %s", params.DefaultQuorum.Dec())
	}

	if err := params.Validate(); err != nil {
		t.Errorf("default params should validate: %v", err)
	}
}

func TestProposalState(t *testing.T) {
	p := &Proposal{StartTime: 100, EndTime: 200}

	tests := []struct {
		name     string
		executed bool
		canceled bool
		now      uint64
		want     ProposalState
	}{
		{"before end", false, false, 150, StateActive},
		{"at start", false, false, 100, StateActive},
		{"at end", false, false, 200, StateExpired},
		{"long after end", false, false, 1 << 40, StateExpired},
		{"executed", true, false, 300, StateExecuted},
		{"canceled during voting", false, true, 150, StateCanceled},
		{"canceled wins over executed", true, true, 300, StateCanceled},
	}
	for _, tt := range tests {
		p.Executed, p.Canceled = tt.executed, tt.canceled
		if got := p.State(tt.now); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestProposalTotalVotes(t *testing.T) {
	p := &Proposal{
		YesVotes:     *uint256.NewInt(600),
		NoVotes:      *uint256.NewInt(500),
		AbstainVotes: *uint256.NewInt(7),
	}
	if total := p.TotalVotes(); total.Uint64() != 1107 {
		t.Errorf("expected total 1107, got %s", total.Dec())
	}
}

func TestChoice(t *testing.T) {
	if ChoiceNone.Valid() {
		t.Error("none must not be a valid choice")
	}
	if Choice(4).Valid() {
		t.Error("out of range choice must not be valid")
	}
	for _, c := range []Choice{ChoiceYes, ChoiceNo, ChoiceAbstain} {
		if !c.Valid() {
			t.Errorf("%v should be valid", c)
		}
		parsed, err := ParseChoice(c.String())
		if err != nil || parsed != c {
			t.Errorf("round trip of %v: got %v, %v", c, parsed, err)
		}
	}
	if _, err := ParseChoice("maybe"); err != ErrInvalidChoice {
		t.Errorf("expected error %v, got %v", ErrInvalidChoice, err)
	}
}
