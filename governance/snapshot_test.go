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
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populatedEngine(t *testing.T) *Engine {
	e, clk := newTestEngine(t)
	setPower(t, e, voterA, 600)
	setPower(t, e, voterB, 500)
	setPower(t, e, voterC, 7)
	require.NoError(t, e.Delegate(voterC, voterA))

	id, err := e.CreateProposal(voterA, "first", "", 2*day, uint256.NewInt(1000))
	require.NoError(t, err)
	require.NoError(t, e.Vote(voterA, id, ChoiceYes))
	require.NoError(t, e.Vote(voterB, id, ChoiceNo))

	id2, err := e.CreateProposal(voterB, "second", "", day, uint256.NewInt(1))
	require.NoError(t, err)
	require.NoError(t, e.Vote(voterC, id2, ChoiceAbstain))
	require.NoError(t, e.CancelProposal(voterB, id2))

	advance(clk, 3*day)
	require.NoError(t, e.Pause(testAdmin))
	return e
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := populatedEngine(t)
	snap := e.Snapshot()

	restored, err := Restore(snap, FixedClock(e.Now()))
	require.NoError(t, err)
	defer restored.Close()

	assert.Equal(t, snap, restored.Snapshot())
	assert.True(t, restored.Paused())
	assert.Equal(t, uint64(2), restored.ProposalCount())
	assert.Equal(t, uint64(607), restored.GetEffectiveVotingPower(voterA).Uint64())
	assert.True(t, hasVoted(t, restored, 2, voterC))
	assert.Equal(t, e.GetVoteHistory(voterB), restored.GetVoteHistory(voterB))

	// The restored engine carries on where the original stopped
	require.NoError(t, restored.Unpause(testAdmin))
	executed, err := restored.ExecuteProposal(voterB, 1)
	require.NoError(t, err)
	assert.True(t, executed)

	id, err := restored.CreateProposal(voterA, "third", "", day, uint256.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
}

func TestSnapshotSorted(t *testing.T) {
	e := populatedEngine(t)
	snap := e.Snapshot()

	require.Len(t, snap.Voters, 3)
	assert.Equal(t, []common.Address{voterA, voterB, voterC}, []common.Address{
		snap.Voters[0].Address, snap.Voters[1].Address, snap.Voters[2].Address,
	})
	require.Len(t, snap.Voted, 2)
	assert.Equal(t, []common.Address{voterA, voterB}, snap.Voted[0].Voters)
	assert.Equal(t, uint64(1), snap.Proposals[0].ID)
	assert.Equal(t, uint64(2), snap.Proposals[1].ID)
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"zero admin", func(s *Snapshot) { s.Admin = common.Address{} }},
		{"id beyond counter", func(s *Snapshot) { s.ProposalCount = 1 }},
		{"duplicate proposal", func(s *Snapshot) { s.Proposals[1].ID = 1 }},
		{"empty window", func(s *Snapshot) { s.Proposals[0].EndTime = s.Proposals[0].StartTime }},
		{"executed and canceled", func(s *Snapshot) { s.Proposals[1].Executed = true }},
		{"total mismatch", func(s *Snapshot) { s.TotalPower.SetUint64(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := populatedEngine(t).Snapshot()
			tt.mutate(snap)
			_, err := Restore(snap, FixedClock(0))
			if !errors.Is(err, errCorruptSnapshot) {
				t.Errorf("expected corrupt snapshot error, got %v", err)
			}
		})
	}
}
