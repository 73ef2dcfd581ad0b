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

import "errors"

// Error kinds. Every error returned by the engine unwraps to exactly one of
// these, so callers can branch with errors.Is without knowing the specific
// failure.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrQuorumNotMet    = errors.New("quorum not met")
	ErrTimingViolation = errors.New("timing violation")
	ErrContractPaused  = errors.New("contract paused")
)

// kindError is a specific failure tagged with its kind.
type kindError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Authorization errors
var (
	ErrNotVoter      = newError(ErrUnauthorized, "caller is not a registered voter")
	ErrNotAdmin      = newError(ErrUnauthorized, "caller is not the administrator")
	ErrNotCreator    = newError(ErrUnauthorized, "caller is not the proposal creator")
	ErrNoVotingPower = newError(ErrUnauthorized, "caller has no effective voting power")
)

// Lookup errors
var (
	ErrProposalNotFound = newError(ErrNotFound, "proposal not found")
	ErrVoterNotFound    = newError(ErrNotFound, "voter not found")
)

// Argument errors
var (
	ErrEmptyTitle            = newError(ErrInvalidArgument, "proposal title is empty")
	ErrInvalidDuration       = newError(ErrInvalidArgument, "proposal duration out of bounds")
	ErrInvalidQuorum         = newError(ErrInvalidArgument, "quorum must be positive")
	ErrInvalidChoice         = newError(ErrInvalidArgument, "invalid vote choice")
	ErrInvalidDelegate       = newError(ErrInvalidArgument, "invalid delegate")
	ErrDelegateNotRegistered = newError(ErrInvalidArgument, "delegate is not a registered voter")
	ErrInvalidDurationBounds = newError(ErrInvalidArgument, "minimum duration must be below maximum")
	ErrInvalidVoterAddress   = newError(ErrInvalidArgument, "voter address is empty")
	ErrInvalidAdmin          = newError(ErrInvalidArgument, "administrator address is empty")
	ErrPowerOverflow         = newError(ErrInvalidArgument, "voting power overflow")
)

// State errors
var (
	ErrProposalNotActive = newError(ErrInvalidState, "proposal is not active")
	ErrAlreadyVoted      = newError(ErrInvalidState, "voter has already voted on this proposal")
	ErrAlreadyDelegated  = newError(ErrInvalidState, "voter has already delegated")
	ErrProposalExecuted  = newError(ErrInvalidState, "proposal already executed")
	ErrProposalCanceled  = newError(ErrInvalidState, "proposal already canceled")
	ErrVotingEnded       = newError(ErrInvalidState, "voting period has ended")
	ErrNotPaused         = newError(ErrInvalidState, "contract is not paused")
)

// Timing errors
var (
	ErrExecutionDelayNotMet = newError(ErrTimingViolation, "execution delay not met")
	ErrVotingNotEnded       = newError(ErrTimingViolation, "voting period has not ended")
)

// ErrPaused is returned for mutating calls while the engine is paused.
var ErrPaused = newError(ErrContractPaused, "contract is paused")
