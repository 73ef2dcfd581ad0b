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

// Event is a notification emitted for every successful state change.
type Event interface {
	// EventName is the stable identifier used in audit logs.
	EventName() string
}

// Event names
const (
	EventProposalCreated       = "ProposalCreated"
	EventVoteCast              = "VoteCast"
	EventDelegation            = "DelegationRecorded"
	EventProposalExecuted      = "ProposalExecuted"
	EventProposalCanceled      = "ProposalCanceled"
	EventVotingPowerUpdated    = "VotingPowerUpdated"
	EventVoterRemoved          = "VoterRemoved"
	EventQuorumUpdated         = "QuorumUpdated"
	EventExecutionDelayUpdated = "ExecutionDelayUpdated"
	EventDurationLimitsUpdated = "DurationLimitsUpdated"
	EventPause                 = "PauseChanged"
)

type ProposalCreatedEvent struct {
	ProposalID uint64
	Creator    common.Address
	Title      string
	StartTime  uint64
	EndTime    uint64
	Quorum     *uint256.Int
}

type VoteCastEvent struct {
	ProposalID uint64
	Voter      common.Address
	Choice     Choice
	Power      *uint256.Int
}

type DelegationEvent struct {
	From  common.Address
	To    common.Address
	Power *uint256.Int
}

type ProposalExecutedEvent struct {
	ProposalID   uint64
	YesVotes     *uint256.Int
	NoVotes      *uint256.Int
	AbstainVotes *uint256.Int
}

// ProposalCanceledEvent is emitted for creator and emergency cancellations.
type ProposalCanceledEvent struct {
	ProposalID uint64
	By         common.Address
	Emergency  bool
}

type VotingPowerUpdatedEvent struct {
	Voter    common.Address
	OldPower *uint256.Int
	NewPower *uint256.Int
}

type VoterRemovedEvent struct {
	Voter common.Address
	Power *uint256.Int
}

type QuorumUpdatedEvent struct {
	OldQuorum *uint256.Int
	NewQuorum *uint256.Int
}

type ExecutionDelayUpdatedEvent struct {
	OldDelay uint64
	NewDelay uint64
}

type DurationLimitsUpdatedEvent struct {
	MinDuration uint64
	MaxDuration uint64
}

// PauseEvent reports both pausing and unpausing.
type PauseEvent struct {
	Admin  common.Address
	Paused bool
}

func (ProposalCreatedEvent) EventName() string       { return EventProposalCreated }
func (VoteCastEvent) EventName() string              { return EventVoteCast }
func (DelegationEvent) EventName() string            { return EventDelegation }
func (ProposalExecutedEvent) EventName() string      { return EventProposalExecuted }
func (ProposalCanceledEvent) EventName() string      { return EventProposalCanceled }
func (VotingPowerUpdatedEvent) EventName() string    { return EventVotingPowerUpdated }
func (VoterRemovedEvent) EventName() string          { return EventVoterRemoved }
func (QuorumUpdatedEvent) EventName() string         { return EventQuorumUpdated }
func (ExecutionDelayUpdatedEvent) EventName() string { return EventExecutionDelayUpdated }
func (DurationLimitsUpdatedEvent) EventName() string { return EventDurationLimitsUpdated }
func (PauseEvent) EventName() string                 { return EventPause }
