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

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// VoteLedger owns the has-voted markers and the per-voter vote history, and
// accumulates tallies onto proposals. Markers and history are never removed.
// It is not safe for concurrent use; the engine serializes access.
type VoteLedger struct {
	voted   map[uint64]mapset.Set[common.Address]
	history map[common.Address][]VoteRecord
}

// NewVoteLedger creates an empty ledger
func NewVoteLedger() *VoteLedger {
	return &VoteLedger{
		voted:   make(map[uint64]mapset.Set[common.Address]),
		history: make(map[common.Address][]VoteRecord),
	}
}

// HasVoted reports whether voter already voted on proposalID.
func (l *VoteLedger) HasVoted(proposalID uint64, voter common.Address) bool {
	set, ok := l.voted[proposalID]
	return ok && set.Contains(voter)
}

// RecordVote marks the (proposal, voter) pair and adds power to the bucket
// matching choice.
func (l *VoteLedger) RecordVote(p *Proposal, voter common.Address, choice Choice, power *uint256.Int, now uint64) error {
	if l.HasVoted(p.ID, voter) {
		return ErrAlreadyVoted
	}
	if !choice.Valid() {
		return ErrInvalidChoice
	}
	var bucket *uint256.Int
	switch choice {
	case ChoiceYes:
		bucket = &p.YesVotes
	case ChoiceNo:
		bucket = &p.NoVotes
	case ChoiceAbstain:
		bucket = &p.AbstainVotes
	}
	sum, overflow := new(uint256.Int).AddOverflow(bucket, power)
	if overflow {
		return ErrPowerOverflow
	}
	// the three buckets must also fit together for the quorum check
	if _, overflow := new(uint256.Int).AddOverflow(p.TotalVotes(), power); overflow {
		return ErrPowerOverflow
	}
	bucket.Set(sum)

	set, ok := l.voted[p.ID]
	if !ok {
		set = mapset.NewThreadUnsafeSet[common.Address]()
		l.voted[p.ID] = set
	}
	set.Add(voter)
	l.history[voter] = append(l.history[voter], VoteRecord{
		ProposalID: p.ID,
		Choice:     choice,
		Power:      *power,
		Timestamp:  now,
	})
	return nil
}

// History returns the vote records of voter in insertion order.
func (l *VoteLedger) History(voter common.Address) []VoteRecord {
	records := l.history[voter]
	out := make([]VoteRecord, len(records))
	copy(out, records)
	return out
}

// Voters returns every identity that voted on proposalID.
func (l *VoteLedger) Voters(proposalID uint64) []common.Address {
	set, ok := l.voted[proposalID]
	if !ok {
		return nil
	}
	return set.ToSlice()
}

// Execute runs the execution decision for p at time now. It returns true
// when the proposal was marked executed and false when quorum was met but
// the proposal did not pass; the latter changes nothing and is repeatable.
func (l *VoteLedger) Execute(p *Proposal, now uint64, delay uint64) (bool, error) {
	if err := checkOpen(p); err != nil {
		return false, err
	}
	unlock := p.EndTime + delay
	if unlock < p.EndTime {
		unlock = math.MaxUint64
	}
	if now < unlock {
		return false, ErrExecutionDelayNotMet
	}
	if now <= p.EndTime {
		return false, ErrVotingNotEnded
	}
	if p.TotalVotes().Lt(&p.Quorum) {
		return false, ErrQuorumNotMet
	}
	if !p.YesVotes.Gt(&p.NoVotes) {
		return false, nil
	}
	p.Executed = true
	return true, nil
}
