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
	"github.com/ethereum/go-ethereum/event"
	"github.com/holiman/uint256"
)

// Clock supplies the current time in unix seconds. The host guarantees it
// never decreases.
type Clock interface {
	Now() uint64
}

// Governor is the full caller-facing surface of the governance engine. The
// caller identity passed to every mutating method is assumed to be already
// authenticated by the host.
type Governor interface {
	// CreateProposal opens a new proposal and returns its id
	CreateProposal(caller common.Address, title, description string, duration uint64, quorum *uint256.Int) (uint64, error)

	// Vote casts the caller's effective power on a proposal
	Vote(caller common.Address, proposalID uint64, choice Choice) error

	// Delegate points the caller's power at another registered voter
	Delegate(caller common.Address, to common.Address) error

	// ExecuteProposal finalizes a proposal once its time-lock has passed.
	// executed is false when quorum was met but the proposal was rejected.
	ExecuteProposal(caller common.Address, proposalID uint64) (executed bool, err error)

	// CancelProposal lets the creator withdraw a proposal during voting
	CancelProposal(caller common.Address, proposalID uint64) error

	// Admin operations
	SetVotingPower(caller common.Address, voter common.Address, power *uint256.Int) error
	SetQuorum(caller common.Address, quorum *uint256.Int) error
	SetExecutionDelay(caller common.Address, delay uint64) error
	SetProposalDurationLimits(caller common.Address, min, max uint64) error
	Pause(caller common.Address) error
	Unpause(caller common.Address) error
	EmergencyRemoveVoter(caller common.Address, voter common.Address) error
	EmergencyCancelProposal(caller common.Address, proposalID uint64) error

	// Read operations
	GetProposal(proposalID uint64) (*Proposal, error)
	GetProposalState(proposalID uint64) (ProposalState, error)
	GetVoter(addr common.Address) Voter
	GetEffectiveVotingPower(addr common.Address) *uint256.Int
	GetVoteHistory(addr common.Address) []VoteRecord
	GetDelegators(addr common.Address) []common.Address
	HasVotedOnProposal(proposalID uint64, addr common.Address) (bool, error)

	// SubscribeEvents delivers every state change notification to ch
	SubscribeEvents(ch chan<- Event) event.Subscription
}
