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

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ProposalStore owns the proposal records and the id counter. It is not safe
// for concurrent use; the engine serializes access.
type ProposalStore struct {
	proposals map[uint64]*Proposal
	count     uint64 // last assigned id
}

// NewProposalStore creates an empty proposal store
func NewProposalStore() *ProposalStore {
	return &ProposalStore{
		proposals: make(map[uint64]*Proposal),
	}
}

// Count returns the number of proposals ever created.
func (s *ProposalStore) Count() uint64 { return s.count }

// Create validates and stores a new proposal and returns its id. The quorum
// is always the caller-supplied value.
func (s *ProposalStore) Create(title, description string, duration uint64, quorum *uint256.Int, creator common.Address, now uint64, params Params) (uint64, error) {
	if title == "" {
		return 0, ErrEmptyTitle
	}
	if duration < params.MinProposalDuration || duration > params.MaxProposalDuration {
		return 0, ErrInvalidDuration
	}
	// endTime must stay strictly after startTime
	if duration == 0 || now > math.MaxUint64-duration {
		return 0, ErrInvalidDuration
	}
	if quorum == nil || quorum.IsZero() {
		return 0, ErrInvalidQuorum
	}
	s.count++
	p := &Proposal{
		ID:          s.count,
		Title:       title,
		Description: description,
		Creator:     creator,
		StartTime:   now,
		EndTime:     now + duration,
		Quorum:      *quorum,
		MinDuration: params.MinProposalDuration,
		MaxDuration: params.MaxProposalDuration,
	}
	s.proposals[p.ID] = p
	return p.ID, nil
}

// Get returns the live record for id.
func (s *ProposalStore) Get(id uint64) (*Proposal, error) {
	p, ok := s.proposals[id]
	if !ok {
		return nil, ErrProposalNotFound
	}
	return p, nil
}

// Status derives the lifecycle label of proposal id at time now.
func (s *ProposalStore) Status(id uint64, now uint64) (ProposalState, error) {
	p, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	return p.State(now), nil
}

// Cancel withdraws a proposal on behalf of its creator. The window closes
// when voting ends.
func (s *ProposalStore) Cancel(id uint64, caller common.Address, now uint64) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	if p.Creator != caller {
		return ErrNotCreator
	}
	if err := checkOpen(p); err != nil {
		return err
	}
	if now >= p.EndTime {
		return ErrVotingEnded
	}
	p.Canceled = true
	return nil
}

// AdminCancel withdraws a proposal regardless of its voting window.
func (s *ProposalStore) AdminCancel(id uint64) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := checkOpen(p); err != nil {
		return err
	}
	p.Canceled = true
	return nil
}

// All returns copies of every proposal ordered by id.
func (s *ProposalStore) All() []*Proposal {
	out := make([]*Proposal, 0, len(s.proposals))
	for id := uint64(1); id <= s.count; id++ {
		if p, ok := s.proposals[id]; ok {
			cpy := *p
			out = append(out, &cpy)
		}
	}
	return out
}

// checkOpen fails once either terminal flag is set.
func checkOpen(p *Proposal) error {
	if p.Executed {
		return ErrProposalExecuted
	}
	if p.Canceled {
		return ErrProposalCanceled
	}
	return nil
}
