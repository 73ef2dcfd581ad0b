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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// VoterRegistry owns the voter records and the one-hop delegation graph.
// It is not safe for concurrent use; the engine serializes access.
type VoterRegistry struct {
	voters     map[common.Address]*Voter
	delegators map[common.Address][]common.Address // delegate -> delegators, append-only
	totalPower uint256.Int
}

// NewVoterRegistry creates an empty registry
func NewVoterRegistry() *VoterRegistry {
	return &VoterRegistry{
		voters:     make(map[common.Address]*Voter),
		delegators: make(map[common.Address][]common.Address),
	}
}

// Voter returns a copy of the record for addr. Unknown addresses yield the
// zero Voter.
func (r *VoterRegistry) Voter(addr common.Address) Voter {
	if v, ok := r.voters[addr]; ok {
		return *v
	}
	return Voter{}
}

// IsRegistered reports whether addr currently holds non-zero own power.
func (r *VoterRegistry) IsRegistered(addr common.Address) bool {
	v, ok := r.voters[addr]
	return ok && v.Registered()
}

// TotalPower returns the sum of every voter's own power.
func (r *VoterRegistry) TotalPower() uint256.Int {
	return r.totalPower
}

// Len returns the number of stored voter records.
func (r *VoterRegistry) Len() int {
	return len(r.voters)
}

// SetVotingPower replaces the own power of addr and returns the previous
// value. Setting zero keeps an existing record (and its history) but makes
// it ineligible to vote.
func (r *VoterRegistry) SetVotingPower(addr common.Address, power *uint256.Int) (uint256.Int, error) {
	if addr == (common.Address{}) {
		return uint256.Int{}, ErrInvalidVoterAddress
	}
	v, exists := r.voters[addr]
	var old uint256.Int
	if exists {
		old = v.VotingPower
	}
	// total - old + new; old is always part of total
	total := new(uint256.Int).Sub(&r.totalPower, &old)
	if _, overflow := total.AddOverflow(total, power); overflow {
		return uint256.Int{}, ErrPowerOverflow
	}
	if !exists {
		if power.IsZero() {
			return old, nil
		}
		v = new(Voter)
		r.voters[addr] = v
	}
	v.VotingPower = *power
	r.totalPower = *total
	return old, nil
}

// Delegate records a one-hop delegation from -> to and returns the power
// that was credited to the delegate. The delegator keeps its own power.
func (r *VoterRegistry) Delegate(from, to common.Address) (uint256.Int, error) {
	if to == (common.Address{}) || to == from {
		return uint256.Int{}, ErrInvalidDelegate
	}
	target, ok := r.voters[to]
	if !ok || !target.Registered() {
		return uint256.Int{}, ErrDelegateNotRegistered
	}
	source, ok := r.voters[from]
	if !ok || !source.Registered() {
		return uint256.Int{}, ErrNotVoter
	}
	if source.HasDelegated() {
		return uint256.Int{}, ErrAlreadyDelegated
	}
	credited := new(uint256.Int)
	if _, overflow := credited.AddOverflow(&target.DelegatedPower, &source.VotingPower); overflow {
		return uint256.Int{}, ErrPowerOverflow
	}
	source.Delegate = to
	target.IsDelegate = true
	target.DelegatedPower = *credited
	r.delegators[to] = append(r.delegators[to], from)
	return source.VotingPower, nil
}

// EffectivePower returns own power plus delegated-in power for delegates.
//
// A delegator's own power is not reduced by delegating, so the same power is
// counted both for the delegator and inside the delegate's accumulator.
func (r *VoterRegistry) EffectivePower(addr common.Address) *uint256.Int {
	v, ok := r.voters[addr]
	if !ok {
		return new(uint256.Int)
	}
	power := new(uint256.Int).Set(&v.VotingPower)
	if v.IsDelegate {
		if _, overflow := power.AddOverflow(power, &v.DelegatedPower); overflow {
			return new(uint256.Int).SetAllOne()
		}
	}
	return power
}

// Delegators returns the ordered list of voters that delegated to addr.
func (r *VoterRegistry) Delegators(addr common.Address) []common.Address {
	list := r.delegators[addr]
	out := make([]common.Address, len(list))
	copy(out, list)
	return out
}

// Remove erases the voter record and subtracts its power from the total.
// Delegation edges pointing at or from addr are left as they are.
func (r *VoterRegistry) Remove(addr common.Address) (uint256.Int, error) {
	v, ok := r.voters[addr]
	if !ok {
		return uint256.Int{}, ErrVoterNotFound
	}
	power := v.VotingPower
	r.totalPower.Sub(&r.totalPower, &power)
	delete(r.voters, addr)
	return power, nil
}

// markVoted updates the last-vote snapshot of a voter.
func (r *VoterRegistry) markVoted(addr common.Address, proposalID uint64, choice Choice, now uint64) {
	v, ok := r.voters[addr]
	if !ok {
		return
	}
	v.HasVoted = true
	v.VotedProposal = proposalID
	v.LastChoice = choice
	v.LastVoteTime = now
}
