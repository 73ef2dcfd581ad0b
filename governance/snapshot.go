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
	"bytes"
	"errors"
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// errCorruptSnapshot is wrapped by Restore for inconsistent input.
var errCorruptSnapshot = errors.New("corrupt governance snapshot")

// VoterEntry pairs a voter record with its identity.
type VoterEntry struct {
	Address common.Address
	Voter   Voter
}

// DelegatorsEntry is the reverse delegation index of one delegate.
type DelegatorsEntry struct {
	Delegate   common.Address
	Delegators []common.Address
}

// VotedEntry lists the identities that voted on one proposal.
type VotedEntry struct {
	ProposalID uint64
	Voters     []common.Address
}

// HistoryEntry is the vote history of one identity.
type HistoryEntry struct {
	Voter   common.Address
	Records []VoteRecord
}

// Snapshot is a plain, deterministic copy of the complete engine state.
// Every list is sorted by its key.
type Snapshot struct {
	Admin         common.Address
	Params        Params
	Paused        bool
	ProposalCount uint64
	TotalPower    uint256.Int
	Proposals     []Proposal
	Voters        []VoterEntry
	Delegators    []DelegatorsEntry
	Voted         []VotedEntry
	Histories     []HistoryEntry
}

func sortAddresses(list []common.Address) {
	sort.Slice(list, func(i, j int) bool {
		return bytes.Compare(list[i][:], list[j][:]) < 0
	})
}

// Snapshot copies the current state of the engine.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := &Snapshot{
		Admin:         e.policy.Admin(),
		Params:        e.policy.Params(),
		Paused:        e.policy.Paused(),
		ProposalCount: e.proposals.Count(),
		TotalPower:    e.voters.TotalPower(),
	}
	for _, p := range e.proposals.All() {
		snap.Proposals = append(snap.Proposals, *p)
	}
	for addr, v := range e.voters.voters {
		snap.Voters = append(snap.Voters, VoterEntry{Address: addr, Voter: *v})
	}
	sort.Slice(snap.Voters, func(i, j int) bool {
		return bytes.Compare(snap.Voters[i].Address[:], snap.Voters[j].Address[:]) < 0
	})
	for delegate := range e.voters.delegators {
		snap.Delegators = append(snap.Delegators, DelegatorsEntry{
			Delegate:   delegate,
			Delegators: e.voters.Delegators(delegate),
		})
	}
	sort.Slice(snap.Delegators, func(i, j int) bool {
		return bytes.Compare(snap.Delegators[i].Delegate[:], snap.Delegators[j].Delegate[:]) < 0
	})
	for id := range e.ledger.voted {
		voters := e.ledger.Voters(id)
		sortAddresses(voters)
		snap.Voted = append(snap.Voted, VotedEntry{ProposalID: id, Voters: voters})
	}
	sort.Slice(snap.Voted, func(i, j int) bool { return snap.Voted[i].ProposalID < snap.Voted[j].ProposalID })
	for voter := range e.ledger.history {
		snap.Histories = append(snap.Histories, HistoryEntry{Voter: voter, Records: e.ledger.History(voter)})
	}
	sort.Slice(snap.Histories, func(i, j int) bool {
		return bytes.Compare(snap.Histories[i].Voter[:], snap.Histories[j].Voter[:]) < 0
	})
	return snap
}

// Restore rebuilds an engine from a snapshot. The snapshot is checked for
// the invariants the live engine maintains.
func Restore(snap *Snapshot, clock Clock) (*Engine, error) {
	params := snap.Params
	e, err := NewEngine(snap.Admin, &params, clock)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptSnapshot, err)
	}
	e.policy.paused = snap.Paused

	for i := range snap.Proposals {
		p := snap.Proposals[i]
		if p.ID == 0 || p.ID > snap.ProposalCount {
			return nil, fmt.Errorf("%w: proposal id %d outside counter %d", errCorruptSnapshot, p.ID, snap.ProposalCount)
		}
		if p.EndTime <= p.StartTime {
			return nil, fmt.Errorf("%w: proposal %d ends before it starts", errCorruptSnapshot, p.ID)
		}
		if p.Executed && p.Canceled {
			return nil, fmt.Errorf("%w: proposal %d both executed and canceled", errCorruptSnapshot, p.ID)
		}
		if _, dup := e.proposals.proposals[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate proposal %d", errCorruptSnapshot, p.ID)
		}
		e.proposals.proposals[p.ID] = &p
	}
	e.proposals.count = snap.ProposalCount

	var total uint256.Int
	for _, entry := range snap.Voters {
		v := entry.Voter
		if _, overflow := total.AddOverflow(&total, &v.VotingPower); overflow {
			return nil, fmt.Errorf("%w: total power overflow", errCorruptSnapshot)
		}
		e.voters.voters[entry.Address] = &v
	}
	if !total.Eq(&snap.TotalPower) {
		return nil, fmt.Errorf("%w: total power %s does not match voters %s", errCorruptSnapshot, snap.TotalPower.Dec(), total.Dec())
	}
	e.voters.totalPower = total

	for _, entry := range snap.Delegators {
		list := make([]common.Address, len(entry.Delegators))
		copy(list, entry.Delegators)
		e.voters.delegators[entry.Delegate] = list
	}
	for _, entry := range snap.Voted {
		e.ledger.voted[entry.ProposalID] = mapset.NewThreadUnsafeSet(entry.Voters...)
	}
	for _, entry := range snap.Histories {
		records := make([]VoteRecord, len(entry.Records))
		copy(records, entry.Records)
		e.ledger.history[entry.Voter] = records
	}
	return e, nil
}
