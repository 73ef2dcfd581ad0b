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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Choice is the option a voter picks on a proposal.
type Choice uint8

const (
	ChoiceNone    Choice = 0x00 // unset sentinel, never a valid vote
	ChoiceYes     Choice = 0x01
	ChoiceNo      Choice = 0x02
	ChoiceAbstain Choice = 0x03
)

// Valid reports whether c is one of Yes, No or Abstain.
func (c Choice) Valid() bool {
	return c >= ChoiceYes && c <= ChoiceAbstain
}

func (c Choice) String() string {
	switch c {
	case ChoiceNone:
		return "none"
	case ChoiceYes:
		return "yes"
	case ChoiceNo:
		return "no"
	case ChoiceAbstain:
		return "abstain"
	}
	return fmt.Sprintf("choice(%d)", uint8(c))
}

// ParseChoice converts a textual choice into a Choice.
func ParseChoice(s string) (Choice, error) {
	switch s {
	case "yes", "y", "for":
		return ChoiceYes, nil
	case "no", "n", "against":
		return ChoiceNo, nil
	case "abstain", "a":
		return ChoiceAbstain, nil
	}
	return ChoiceNone, ErrInvalidChoice
}

// ProposalState is the lifecycle label of a proposal. It is always derived
// from the stored flags and the current time, never stored.
type ProposalState uint8

const (
	StateActive   ProposalState = 0x00 // 投票中
	StateExpired  ProposalState = 0x01 // 投票结束，未执行
	StateExecuted ProposalState = 0x02 // 已执行
	StateCanceled ProposalState = 0x03 // 已取消
)

func (s ProposalState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	case StateExecuted:
		return "executed"
	case StateCanceled:
		return "canceled"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Proposal represents a governance proposal
type Proposal struct {
	ID           uint64         // 提案 ID，从 1 开始递增
	Title        string         // 标题
	Description  string         // 描述
	Creator      common.Address // 提案者
	StartTime    uint64         // 投票开始时间
	EndTime      uint64         // 投票截止时间
	YesVotes     uint256.Int    // 赞成权重
	NoVotes      uint256.Int    // 反对权重
	AbstainVotes uint256.Int    // 弃权权重
	Executed     bool           // 已执行
	Canceled     bool           // 已取消
	Quorum       uint256.Int    // 创建时确定的法定人数
	MinDuration  uint64         // 创建时的最短期限（审计用）
	MaxDuration  uint64         // 创建时的最长期限（审计用）
}

// TotalVotes returns the sum of all three tally buckets.
func (p *Proposal) TotalVotes() *uint256.Int {
	total := new(uint256.Int).Add(&p.YesVotes, &p.NoVotes)
	return total.Add(total, &p.AbstainVotes)
}

// State derives the lifecycle label of the proposal at time now.
func (p *Proposal) State(now uint64) ProposalState {
	switch {
	case p.Canceled:
		return StateCanceled
	case p.Executed:
		return StateExecuted
	case now >= p.EndTime:
		return StateExpired
	default:
		return StateActive
	}
}

// Voter is the registry record of a single identity. The zero value is a
// non-voter.
type Voter struct {
	VotingPower    uint256.Int    // 管理员分配的投票权
	Delegate       common.Address // 委托目标，零地址表示未委托
	IsDelegate     bool           // 是否接收他人委托
	DelegatedPower uint256.Int    // 累计被委托的权重
	HasVoted       bool           // 是否投过票
	VotedProposal  uint64         // 最近一次投票的提案
	LastChoice     Choice         // 最近一次投票选项
	LastVoteTime   uint64         // 最近一次投票时间
}

// Registered reports whether the voter currently holds any own power.
func (v Voter) Registered() bool {
	return !v.VotingPower.IsZero()
}

// HasDelegated reports whether the voter has pointed its power elsewhere.
func (v Voter) HasDelegated() bool {
	return v.Delegate != (common.Address{})
}

// VoteRecord is one entry in a voter's append-only vote history.
type VoteRecord struct {
	ProposalID uint64
	Choice     Choice
	Power      uint256.Int
	Timestamp  uint64
}
