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

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Edge cases around time boundaries, zero power and parameter changes

func TestVoteAtWindowBoundaries(t *testing.T) {
	e, clk := newTestEngine(t)
	setPower(t, e, voterA, 1)
	setPower(t, e, voterB, 1)
	setPower(t, e, voterC, 1)

	id, err := e.CreateProposal(voterA, "t", "", day, uint256.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// startTime itself is inside the window
	if err := e.Vote(voterA, id, ChoiceYes); err != nil {
		t.Errorf("vote at start: %v", err)
	}
	advance(clk, day-1)
	if err := e.Vote(voterB, id, ChoiceNo); err != nil {
		t.Errorf("vote before end: %v", err)
	}
	advance(clk, 1)
	if err := e.Vote(voterC, id, ChoiceYes); err != ErrProposalNotActive {
		t.Errorf("expected error %v, got %v", ErrProposalNotActive, err)
	}
}

func TestSetVotingPowerZero(t *testing.T) {
	e, _ := newTestEngine(t)
	setPower(t, e, voterA, 100)
	setPower(t, e, voterA, 0)

	if _, err := e.CreateProposal(voterA, "t", "", day, uint256.NewInt(1)); err != ErrNotVoter {
		t.Errorf("expected error %v, got %v", ErrNotVoter, err)
	}
	if !e.TotalVotingPower().IsZero() {
		t.Errorf("expected zero total power, got %s", e.TotalVotingPower().Dec())
	}
	// zero power on an unknown address stores nothing
	setPower(t, e, voterB, 0)
	if e.GetVoter(voterB) != (Voter{}) {
		t.Error("zero power should not create a record")
	}
	// the emptied record can still be removed
	if err := e.EmergencyRemoveVoter(testAdmin, voterA); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPowerOverflow(t *testing.T) {
	e, _ := newTestEngine(t)
	maxPower := new(uint256.Int).SetAllOne()
	if err := e.SetVotingPower(testAdmin, voterA, maxPower); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.SetVotingPower(testAdmin, voterB, uint256.NewInt(1)); err != ErrPowerOverflow {
		t.Errorf("expected error %v, got %v", ErrPowerOverflow, err)
	}
	if !e.TotalVotingPower().Eq(maxPower) {
		t.Error("failed update must leave the total unchanged")
	}
	// replacing the only voter's power is not an overflow
	if err := e.SetVotingPower(testAdmin, voterA, uint256.NewInt(5)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDelegateToZeroedVoter(t *testing.T) {
	e, _ := newTestEngine(t)
	setPower(t, e, voterA, 100)
	setPower(t, e, voterB, 50)
	setPower(t, e, voterA, 0)

	if err := e.Delegate(voterB, voterA); err != ErrDelegateNotRegistered {
		t.Errorf("expected error %v, got %v", ErrDelegateNotRegistered, err)
	}
}

func TestDelegatedPowerIsFixedAtDelegation(t *testing.T) {
	e, _ := newTestEngine(t)
	setPower(t, e, voterA, 100)
	setPower(t, e, voterB, 50)
	if err := e.Delegate(voterB, voterA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	setPower(t, e, voterB, 80)

	if power := e.GetEffectiveVotingPower(voterA); power.Uint64() != 150 {
		t.Errorf("expected 150, got %s", power.Dec())
	}
	if power := e.GetEffectiveVotingPower(voterB); power.Uint64() != 80 {
		t.Errorf("expected 80, got %s", power.Dec())
	}
}

func TestCanceledStateWinsOverExpiry(t *testing.T) {
	e, clk := newTestEngine(t)
	setPower(t, e, voterA, 1)
	id, _ := e.CreateProposal(voterA, "t", "", day, uint256.NewInt(1))
	if err := e.CancelProposal(voterA, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	advance(clk, 10*day)

	state, err := e.GetProposalState(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StateCanceled {
		t.Errorf("expected %v, got %v", StateCanceled, state)
	}
}

func TestParameterChangesAndExistingProposals(t *testing.T) {
	e, clk := newTestEngine(t)
	setPower(t, e, voterA, 10)
	id, err := e.CreateProposal(voterA, "t", "", 2*day, uint256.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Vote(voterA, id, ChoiceYes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// duration limits are recorded per proposal at creation
	if err := e.SetProposalDurationLimits(testAdmin, 60, 120); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := e.GetProposal(id)
	if p.MinDuration != DefaultMinProposalDuration || p.MaxDuration != DefaultMaxProposalDuration {
		t.Errorf("proposal bounds changed to %d..%d", p.MinDuration, p.MaxDuration)
	}

	// the execution delay is read when executing
	if err := e.SetExecutionDelay(testAdmin, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	advance(clk, 2*day+1)
	executed, err := e.ExecuteProposal(voterA, id)
	if err != nil || !executed {
		t.Errorf("expected execution, got %v, %v", executed, err)
	}
}

func TestProposalIDsAreSequential(t *testing.T) {
	e, _ := newTestEngine(t)
	setPower(t, e, voterA, 1)

	for want := uint64(1); want <= 5; want++ {
		id, err := e.CreateProposal(voterA, "t", "", day, uint256.NewInt(1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != want {
			t.Errorf("expected id %d, got %d", want, id)
		}
	}
	if _, err := e.GetProposal(0); err != ErrProposalNotFound {
		t.Errorf("expected error %v, got %v", ErrProposalNotFound, err)
	}
	if got := len(e.Proposals()); got != 5 {
		t.Errorf("expected 5 proposals, got %d", got)
	}
}

func TestUnknownAddressReads(t *testing.T) {
	e, _ := newTestEngine(t)
	stranger := common.HexToAddress("0x5")

	if e.GetVoter(stranger) != (Voter{}) {
		t.Error("unknown address should read as the zero voter")
	}
	if !e.GetEffectiveVotingPower(stranger).IsZero() {
		t.Error("unknown address should have no power")
	}
	if len(e.GetVoteHistory(stranger)) != 0 || len(e.GetDelegators(stranger)) != 0 {
		t.Error("unknown address should have no history or delegators")
	}
	if _, err := e.HasVotedOnProposal(1, stranger); err != ErrProposalNotFound {
		t.Errorf("expected error %v, got %v", ErrProposalNotFound, err)
	}

	setPower(t, e, voterA, 1)
	id, err := e.CreateProposal(voterA, "t", "", day, uint256.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	voted, err := e.HasVotedOnProposal(id, stranger)
	if err != nil || voted {
		t.Errorf("expected (false, nil), got (%v, %v)", voted, err)
	}
}
