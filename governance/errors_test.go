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
	"fmt"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrNotVoter, ErrUnauthorized},
		{ErrNotAdmin, ErrUnauthorized},
		{ErrNotCreator, ErrUnauthorized},
		{ErrProposalNotFound, ErrNotFound},
		{ErrVoterNotFound, ErrNotFound},
		{ErrEmptyTitle, ErrInvalidArgument},
		{ErrInvalidDuration, ErrInvalidArgument},
		{ErrInvalidQuorum, ErrInvalidArgument},
		{ErrInvalidChoice, ErrInvalidArgument},
		{ErrInvalidDelegate, ErrInvalidArgument},
		{ErrDelegateNotRegistered, ErrInvalidArgument},
		{ErrInvalidDurationBounds, ErrInvalidArgument},
		{ErrAlreadyVoted, ErrInvalidState},
		{ErrAlreadyDelegated, ErrInvalidState},
		{ErrProposalNotActive, ErrInvalidState},
		{ErrProposalExecuted, ErrInvalidState},
		{ErrProposalCanceled, ErrInvalidState},
		{ErrVotingEnded, ErrInvalidState},
		{ErrExecutionDelayNotMet, ErrTimingViolation},
		{ErrVotingNotEnded, ErrTimingViolation},
		{ErrPaused, ErrContractPaused},
	}
	kinds := []error{ErrUnauthorized, ErrNotFound, ErrInvalidArgument, ErrInvalidState, ErrQuorumNotMet, ErrTimingViolation, ErrContractPaused}
	for _, tt := range tests {
		for _, kind := range kinds {
			if got := errors.Is(tt.err, kind); got != (kind == tt.kind) {
				t.Errorf("errors.Is(%v, %v) = %v", tt.err, kind, got)
			}
		}
	}
}

func TestErrorKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("vote on 7: %w", ErrAlreadyVoted)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Error("wrapped error should match its sentinel")
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("wrapped error should match its kind")
	}
}
