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

const (
	day = uint64(24 * 60 * 60)

	// DefaultMinProposalDuration is the shortest voting window accepted.
	DefaultMinProposalDuration = 1 * day
	// DefaultMaxProposalDuration is the longest voting window accepted.
	DefaultMaxProposalDuration = 30 * day
	// DefaultExecutionDelay is the time-lock after voting closes.
	DefaultExecutionDelay = 1 * day
	// DefaultQuorum is the initial value of the default quorum parameter.
	DefaultQuorum = 1000
)

// Params holds the tunable governance parameters
type Params struct {
	MinProposalDuration uint64      // 最短投票期限（秒）
	MaxProposalDuration uint64      // 最长投票期限（秒）
	DefaultQuorum       uint256.Int // 默认法定人数（仅记录，创建提案时不读取）
	ExecutionDelay      uint64      // 执行延迟（秒）
}

// DefaultParams returns the default governance parameters
func DefaultParams() *Params {
	return &Params{
		MinProposalDuration: DefaultMinProposalDuration,
		MaxProposalDuration: DefaultMaxProposalDuration,
		DefaultQuorum:       *uint256.NewInt(DefaultQuorum),
		ExecutionDelay:      DefaultExecutionDelay,
	}
}

// Validate checks the parameters for internal consistency.
func (p *Params) Validate() error {
	if p.MinProposalDuration >= p.MaxProposalDuration {
		return ErrInvalidDurationBounds
	}
	if p.DefaultQuorum.IsZero() {
		return ErrInvalidQuorum
	}
	return nil
}

// AdminPolicy holds the global parameters, the single administrator and the
// pause flag. It is not safe for concurrent use; the engine serializes access.
type AdminPolicy struct {
	admin  common.Address
	params Params
	paused bool
}

// NewAdminPolicy creates the policy for the given administrator.
func NewAdminPolicy(admin common.Address, params *Params) (*AdminPolicy, error) {
	if admin == (common.Address{}) {
		return nil, ErrInvalidAdmin
	}
	if params == nil {
		params = DefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &AdminPolicy{admin: admin, params: *params}, nil
}

// Admin returns the administrator identity.
func (ap *AdminPolicy) Admin() common.Address { return ap.admin }

// Params returns a copy of the current parameters.
func (ap *AdminPolicy) Params() Params { return ap.params }

// Paused reports whether non-admin mutations are currently rejected.
func (ap *AdminPolicy) Paused() bool { return ap.paused }

// CheckAdmin fails unless caller is the administrator.
func (ap *AdminPolicy) CheckAdmin(caller common.Address) error {
	if caller != ap.admin {
		return ErrNotAdmin
	}
	return nil
}

// CheckNotPaused fails while the engine is paused.
func (ap *AdminPolicy) CheckNotPaused() error {
	if ap.paused {
		return ErrPaused
	}
	return nil
}

// SetQuorumDefault replaces the default quorum and returns the old value.
func (ap *AdminPolicy) SetQuorumDefault(quorum *uint256.Int) (uint256.Int, error) {
	if quorum == nil || quorum.IsZero() {
		return uint256.Int{}, ErrInvalidQuorum
	}
	old := ap.params.DefaultQuorum
	ap.params.DefaultQuorum = *quorum
	return old, nil
}

// SetExecutionDelay replaces the time-lock and returns the old value.
func (ap *AdminPolicy) SetExecutionDelay(delay uint64) uint64 {
	old := ap.params.ExecutionDelay
	ap.params.ExecutionDelay = delay
	return old
}

// SetDurationBounds replaces the accepted proposal duration range.
func (ap *AdminPolicy) SetDurationBounds(min, max uint64) error {
	if min >= max {
		return ErrInvalidDurationBounds
	}
	ap.params.MinProposalDuration = min
	ap.params.MaxProposalDuration = max
	return nil
}

// Pause stops all non-admin mutations.
func (ap *AdminPolicy) Pause() error {
	if ap.paused {
		return ErrPaused
	}
	ap.paused = true
	return nil
}

// Unpause resumes normal operation.
func (ap *AdminPolicy) Unpause() error {
	if !ap.paused {
		return ErrNotPaused
	}
	ap.paused = false
	return nil
}
