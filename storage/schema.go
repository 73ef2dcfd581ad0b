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


package storage

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// schemaVersion is bumped whenever a stored record layout changes.
const schemaVersion = 1

// The key layout is:
//
//	metaKey                           -> metaRecord
//	proposalPrefix + id (uint64 BE)   -> proposalRecord
//	voterPrefix + address             -> voterRecord
//	delegatorsPrefix + address        -> []common.Address
//	votedPrefix + id (uint64 BE)      -> []common.Address
//	historyPrefix + address           -> []voteRecord
//	eventCountKey                     -> uint64 BE
//	eventPrefix + seq (uint64 BE)     -> auditRecord
//
// Big-endian ids and raw addresses make prefix iteration return entries in
// ascending key order.
var (
	metaKey       = []byte("GovernanceMeta")
	eventCountKey = []byte("GovernanceEventCount")

	proposalPrefix   = []byte("gp")
	voterPrefix      = []byte("gv")
	delegatorsPrefix = []byte("gd")
	votedPrefix      = []byte("gm")
	historyPrefix    = []byte("gh")
	eventPrefix      = []byte("ge")
)

// encodeNumber encodes a number as big endian uint64
func encodeNumber(n uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, n)
	return enc
}

func numberKey(prefix []byte, n uint64) []byte {
	return append(append([]byte{}, prefix...), encodeNumber(n)...)
}

func addressKey(prefix []byte, addr common.Address) []byte {
	return append(append([]byte{}, prefix...), addr.Bytes()...)
}

func proposalKey(id uint64) []byte             { return numberKey(proposalPrefix, id) }
func votedKey(id uint64) []byte                { return numberKey(votedPrefix, id) }
func eventKey(seq uint64) []byte               { return numberKey(eventPrefix, seq) }
func voterKey(addr common.Address) []byte      { return addressKey(voterPrefix, addr) }
func delegatorsKey(addr common.Address) []byte { return addressKey(delegatorsPrefix, addr) }
func historyKey(addr common.Address) []byte    { return addressKey(historyPrefix, addr) }

// Storage data structures for RLP encoding

type metaRecord struct {
	Version        uint64
	Admin          common.Address
	MinDuration    uint64
	MaxDuration    uint64
	DefaultQuorum  *uint256.Int
	ExecutionDelay uint64
	Paused         bool
	ProposalCount  uint64
	TotalPower     *uint256.Int
}

type proposalRecord struct {
	ID           uint64
	Title        string
	Description  string
	Creator      common.Address
	StartTime    uint64
	EndTime      uint64
	YesVotes     *uint256.Int
	NoVotes      *uint256.Int
	AbstainVotes *uint256.Int
	Executed     bool
	Canceled     bool
	Quorum       *uint256.Int
	MinDuration  uint64
	MaxDuration  uint64
}

type voterRecord struct {
	VotingPower    *uint256.Int
	Delegate       common.Address
	IsDelegate     bool
	DelegatedPower *uint256.Int
	HasVoted       bool
	VotedProposal  uint64
	LastChoice     uint8
	LastVoteTime   uint64
}

type voteRecord struct {
	ProposalID uint64
	Choice     uint8
	Power      *uint256.Int
	Timestamp  uint64
}

type auditRecord struct {
	ID      uuid.UUID
	Name    string
	Time    uint64
	Payload []byte
}
