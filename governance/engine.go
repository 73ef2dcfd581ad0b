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
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Engine is the governance state machine. It composes the voter registry,
// proposal store, vote ledger and admin policy behind a single lock, so every
// operation is atomic with respect to all others.
type Engine struct {
	mu        sync.RWMutex
	clock     Clock
	policy    *AdminPolicy
	voters    *VoterRegistry
	proposals *ProposalStore
	ledger    *VoteLedger

	// Events are delivered in commit order by ticket. Tickets are issued
	// under mu; delivery waits on sendCond without holding mu.
	sendMu   sync.Mutex
	sendCond *sync.Cond
	issued   uint64
	sent     uint64

	feed  event.FeedOf[Event]
	scope event.SubscriptionScope
}

var _ Governor = (*Engine)(nil)

// NewEngine creates an engine administered by admin. A nil params selects
// DefaultParams and a nil clock selects the system clock.
func NewEngine(admin common.Address, params *Params, clock Clock) (*Engine, error) {
	policy, err := NewAdminPolicy(admin, params)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	e := &Engine{
		clock:     clock,
		policy:    policy,
		voters:    NewVoterRegistry(),
		proposals: NewProposalStore(),
		ledger:    NewVoteLedger(),
	}
	e.sendCond = sync.NewCond(&e.sendMu)
	return e, nil
}

// SubscribeEvents delivers every state change notification to ch. Delivery
// is synchronous and ordered: a subscriber that stops reading keeps the
// pending mutating calls from returning, although their state changes are
// already applied and reads proceed.
func (e *Engine) SubscribeEvents(ch chan<- Event) event.Subscription {
	return e.scope.Track(e.feed.Subscribe(ch))
}

// Close ends all event subscriptions.
func (e *Engine) Close() {
	e.scope.Close()
}

// release unlocks the engine and then delivers ev, if any, after every
// event committed before it.
func (e *Engine) release(ev Event) {
	if ev == nil {
		e.mu.Unlock()
		return
	}
	ticket := e.issued
	e.issued++
	e.mu.Unlock()

	e.sendMu.Lock()
	for e.sent != ticket {
		e.sendCond.Wait()
	}
	e.sendMu.Unlock()

	e.feed.Send(ev)

	e.sendMu.Lock()
	e.sent++
	e.sendCond.Broadcast()
	e.sendMu.Unlock()
}

// checkVoter runs the guard shared by the voter-facing operations.
func (e *Engine) checkVoter(caller common.Address) error {
	if err := e.policy.CheckNotPaused(); err != nil {
		return err
	}
	if !e.voters.IsRegistered(caller) {
		return ErrNotVoter
	}
	return nil
}

// CreateProposal opens a proposal whose voting window starts now.
func (e *Engine) CreateProposal(caller common.Address, title, description string, duration uint64, quorum *uint256.Int) (uint64, error) {
	e.mu.Lock()
	if err := e.checkVoter(caller); err != nil {
		e.release(nil)
		return 0, err
	}
	now := e.clock.Now()
	id, err := e.proposals.Create(title, description, duration, quorum, caller, now, e.policy.Params())
	if err != nil {
		e.release(nil)
		return 0, err
	}
	log.Info("Proposal created", "id", id, "creator", caller, "end", now+duration, "quorum", quorum)
	e.release(ProposalCreatedEvent{
		ProposalID: id,
		Creator:    caller,
		Title:      title,
		StartTime:  now,
		EndTime:    now + duration,
		Quorum:     new(uint256.Int).Set(quorum),
	})
	return id, nil
}

// Vote casts the caller's effective power on a proposal.
func (e *Engine) Vote(caller common.Address, proposalID uint64, choice Choice) error {
	e.mu.Lock()
	ev, err := e.vote(caller, proposalID, choice)
	e.release(ev)
	return err
}

func (e *Engine) vote(caller common.Address, proposalID uint64, choice Choice) (Event, error) {
	if err := e.checkVoter(caller); err != nil {
		return nil, err
	}
	p, err := e.proposals.Get(proposalID)
	if err != nil {
		return nil, err
	}
	now := e.clock.Now()
	if p.Executed || p.Canceled || now < p.StartTime || now >= p.EndTime {
		return nil, ErrProposalNotActive
	}
	power := e.voters.EffectivePower(caller)
	if power.IsZero() {
		return nil, ErrNoVotingPower
	}
	if err := e.ledger.RecordVote(p, caller, choice, power, now); err != nil {
		return nil, err
	}
	e.voters.markVoted(caller, proposalID, choice, now)

	log.Info("Vote cast", "proposal", proposalID, "voter", caller, "choice", choice, "power", power)
	return VoteCastEvent{ProposalID: proposalID, Voter: caller, Choice: choice, Power: power}, nil
}

// Delegate points the caller's power at another registered voter. The
// delegation can not be revoked.
func (e *Engine) Delegate(caller common.Address, to common.Address) error {
	e.mu.Lock()
	if err := e.checkVoter(caller); err != nil {
		e.release(nil)
		return err
	}
	power, err := e.voters.Delegate(caller, to)
	if err != nil {
		e.release(nil)
		return err
	}
	log.Info("Delegation recorded", "from", caller, "to", to, "power", &power)
	e.release(DelegationEvent{From: caller, To: to, Power: new(uint256.Int).Set(&power)})
	return nil
}

// ExecuteProposal finalizes a proposal once voting ended and the execution
// delay elapsed. Anyone may call it. When quorum is met but yes does not
// exceed no, it returns (false, nil) and changes nothing.
func (e *Engine) ExecuteProposal(caller common.Address, proposalID uint64) (bool, error) {
	e.mu.Lock()
	if err := e.policy.CheckNotPaused(); err != nil {
		e.release(nil)
		return false, err
	}
	p, err := e.proposals.Get(proposalID)
	if err != nil {
		e.release(nil)
		return false, err
	}
	executed, err := e.ledger.Execute(p, e.clock.Now(), e.policy.Params().ExecutionDelay)
	if err != nil || !executed {
		if err == nil {
			log.Info("Proposal rejected", "id", proposalID, "yes", &p.YesVotes, "no", &p.NoVotes)
		}
		e.release(nil)
		return false, err
	}
	log.Info("Proposal executed", "id", proposalID, "by", caller, "yes", &p.YesVotes, "no", &p.NoVotes)
	e.release(ProposalExecutedEvent{
		ProposalID:   proposalID,
		YesVotes:     new(uint256.Int).Set(&p.YesVotes),
		NoVotes:      new(uint256.Int).Set(&p.NoVotes),
		AbstainVotes: new(uint256.Int).Set(&p.AbstainVotes),
	})
	return true, nil
}

// CancelProposal withdraws a proposal. Only its creator may do so, and only
// while voting is still open.
func (e *Engine) CancelProposal(caller common.Address, proposalID uint64) error {
	e.mu.Lock()
	if err := e.policy.CheckNotPaused(); err != nil {
		e.release(nil)
		return err
	}
	if err := e.proposals.Cancel(proposalID, caller, e.clock.Now()); err != nil {
		e.release(nil)
		return err
	}
	log.Info("Proposal canceled", "id", proposalID, "by", caller)
	e.release(ProposalCanceledEvent{ProposalID: proposalID, By: caller})
	return nil
}

// SetVotingPower assigns own power to voter. Admin only.
func (e *Engine) SetVotingPower(caller common.Address, voter common.Address, power *uint256.Int) error {
	e.mu.Lock()
	if err := e.policy.CheckAdmin(caller); err != nil {
		e.release(nil)
		return err
	}
	if power == nil {
		power = new(uint256.Int)
	}
	old, err := e.voters.SetVotingPower(voter, power)
	if err != nil {
		e.release(nil)
		return err
	}
	log.Info("Voting power updated", "voter", voter, "old", &old, "new", power)
	e.release(VotingPowerUpdatedEvent{
		Voter:    voter,
		OldPower: new(uint256.Int).Set(&old),
		NewPower: new(uint256.Int).Set(power),
	})
	return nil
}

// SetQuorum replaces the default quorum parameter. Admin only.
func (e *Engine) SetQuorum(caller common.Address, quorum *uint256.Int) error {
	e.mu.Lock()
	if err := e.policy.CheckAdmin(caller); err != nil {
		e.release(nil)
		return err
	}
	old, err := e.policy.SetQuorumDefault(quorum)
	if err != nil {
		e.release(nil)
		return err
	}
	log.Info("Default quorum updated", "old", &old, "new", quorum)
	e.release(QuorumUpdatedEvent{OldQuorum: new(uint256.Int).Set(&old), NewQuorum: new(uint256.Int).Set(quorum)})
	return nil
}

// SetExecutionDelay replaces the time-lock applied after voting. Admin only.
func (e *Engine) SetExecutionDelay(caller common.Address, delay uint64) error {
	e.mu.Lock()
	if err := e.policy.CheckAdmin(caller); err != nil {
		e.release(nil)
		return err
	}
	old := e.policy.SetExecutionDelay(delay)
	log.Info("Execution delay updated", "old", old, "new", delay)
	e.release(ExecutionDelayUpdatedEvent{OldDelay: old, NewDelay: delay})
	return nil
}

// SetProposalDurationLimits replaces the accepted duration range. Admin only.
func (e *Engine) SetProposalDurationLimits(caller common.Address, min, max uint64) error {
	e.mu.Lock()
	if err := e.policy.CheckAdmin(caller); err != nil {
		e.release(nil)
		return err
	}
	if err := e.policy.SetDurationBounds(min, max); err != nil {
		e.release(nil)
		return err
	}
	log.Info("Proposal duration limits updated", "min", min, "max", max)
	e.release(DurationLimitsUpdatedEvent{MinDuration: min, MaxDuration: max})
	return nil
}

// Pause rejects every non-admin mutation until Unpause. Admin only.
func (e *Engine) Pause(caller common.Address) error {
	return e.setPaused(caller, true)
}

// Unpause lifts a previous Pause. Admin only.
func (e *Engine) Unpause(caller common.Address) error {
	return e.setPaused(caller, false)
}

func (e *Engine) setPaused(caller common.Address, paused bool) error {
	e.mu.Lock()
	if err := e.policy.CheckAdmin(caller); err != nil {
		e.release(nil)
		return err
	}
	var err error
	if paused {
		err = e.policy.Pause()
	} else {
		err = e.policy.Unpause()
	}
	if err != nil {
		e.release(nil)
		return err
	}
	log.Warn("Governance pause state changed", "paused", paused, "admin", caller)
	e.release(PauseEvent{Admin: caller, Paused: paused})
	return nil
}

// EmergencyRemoveVoter erases a voter record. Admin only. Delegations that
// reference the voter are left in place.
func (e *Engine) EmergencyRemoveVoter(caller common.Address, voter common.Address) error {
	e.mu.Lock()
	if err := e.policy.CheckAdmin(caller); err != nil {
		e.release(nil)
		return err
	}
	power, err := e.voters.Remove(voter)
	if err != nil {
		e.release(nil)
		return err
	}
	log.Warn("Voter removed", "voter", voter, "power", &power)
	e.release(VoterRemovedEvent{Voter: voter, Power: new(uint256.Int).Set(&power)})
	return nil
}

// EmergencyCancelProposal cancels any proposal that is neither executed nor
// canceled, regardless of its voting window. Admin only.
func (e *Engine) EmergencyCancelProposal(caller common.Address, proposalID uint64) error {
	e.mu.Lock()
	if err := e.policy.CheckAdmin(caller); err != nil {
		e.release(nil)
		return err
	}
	if err := e.proposals.AdminCancel(proposalID); err != nil {
		e.release(nil)
		return err
	}
	log.Warn("Proposal canceled by admin", "id", proposalID)
	e.release(ProposalCanceledEvent{ProposalID: proposalID, By: caller, Emergency: true})
	return nil
}

// GetProposal returns a copy of proposal proposalID
func (e *Engine) GetProposal(proposalID uint64) (*Proposal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, err := e.proposals.Get(proposalID)
	if err != nil {
		return nil, err
	}
	cpy := *p
	return &cpy, nil
}

// GetProposalState derives the current lifecycle label of a proposal
func (e *Engine) GetProposalState(proposalID uint64) (ProposalState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.proposals.Status(proposalID, e.clock.Now())
}

// Proposals returns copies of all proposals ordered by id
func (e *Engine) Proposals() []*Proposal {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.proposals.All()
}

// ProposalCount returns the number of proposals ever created
func (e *Engine) ProposalCount() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.proposals.Count()
}

// GetVoter returns the record of addr, or the zero Voter
func (e *Engine) GetVoter(addr common.Address) Voter {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.voters.Voter(addr)
}

// GetEffectiveVotingPower returns own plus delegated-in power of addr
func (e *Engine) GetEffectiveVotingPower(addr common.Address) *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.voters.EffectivePower(addr)
}

// GetVoteHistory returns every vote addr cast, oldest first
func (e *Engine) GetVoteHistory(addr common.Address) []VoteRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.ledger.History(addr)
}

// GetDelegators returns the voters that delegated to addr, in order
func (e *Engine) GetDelegators(addr common.Address) []common.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.voters.Delegators(addr)
}

// HasVotedOnProposal reports whether addr voted on proposalID. It fails with
// ErrProposalNotFound for an unknown id.
func (e *Engine) HasVotedOnProposal(proposalID uint64, addr common.Address) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.proposals.Get(proposalID); err != nil {
		return false, err
	}
	return e.ledger.HasVoted(proposalID, addr), nil
}

// TotalVotingPower returns the sum of all voters' own power
func (e *Engine) TotalVotingPower() *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	total := e.voters.TotalPower()
	return &total
}

// Params returns the current governance parameters
func (e *Engine) Params() Params {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.policy.Params()
}

// Paused reports whether non-admin mutations are rejected
func (e *Engine) Paused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.policy.Paused()
}

// Admin returns the administrator identity
func (e *Engine) Admin() common.Address {
	return e.policy.Admin()
}

// Now returns the engine clock reading
func (e *Engine) Now() uint64 {
	return e.clock.Now()
}
