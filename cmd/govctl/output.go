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


package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mccoysc/xchain-gov/governance"
	"github.com/mccoysc/xchain-gov/storage"
)

var stateColors = map[governance.ProposalState]*color.Color{
	governance.StateActive:   color.New(color.FgCyan),
	governance.StateExpired:  color.New(color.FgYellow),
	governance.StateExecuted: color.New(color.FgGreen),
	governance.StateCanceled: color.New(color.FgRed),
}

func coloredState(state governance.ProposalState) string {
	if c, ok := stateColors[state]; ok {
		return c.Sprint(state.String())
	}
	return state.String()
}

type proposalView struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Creator     string `json:"creator"`
	State       string `json:"state"`
	StartTime   uint64 `json:"startTime"`
	EndTime     uint64 `json:"endTime"`
	Yes         string `json:"yes"`
	No          string `json:"no"`
	Abstain     string `json:"abstain"`
	Quorum      string `json:"quorum"`
	Executed    bool   `json:"executed"`
	Canceled    bool   `json:"canceled"`
}

func newProposalView(p *governance.Proposal, now uint64) proposalView {
	return proposalView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Creator:     p.Creator.Hex(),
		State:       p.State(now).String(),
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Yes:         p.YesVotes.Dec(),
		No:          p.NoVotes.Dec(),
		Abstain:     p.AbstainVotes.Dec(),
		Quorum:      p.Quorum.Dec(),
		Executed:    p.Executed,
		Canceled:    p.Canceled,
	}
}

type voterView struct {
	Address        string   `json:"address"`
	VotingPower    string   `json:"votingPower"`
	EffectivePower string   `json:"effectivePower"`
	Delegate       string   `json:"delegate,omitempty"`
	IsDelegate     bool     `json:"isDelegate"`
	DelegatedPower string   `json:"delegatedPower"`
	Delegators     []string `json:"delegators"`
	HasVoted       bool     `json:"hasVoted"`
	VotedProposal  uint64   `json:"votedProposal,omitempty"`
	LastChoice     string   `json:"lastChoice,omitempty"`
	LastVoteTime   uint64   `json:"lastVoteTime,omitempty"`
}

type voteView struct {
	ProposalID uint64 `json:"proposalId"`
	Choice     string `json:"choice"`
	Power      string `json:"power"`
	Timestamp  uint64 `json:"timestamp"`
}

type eventView struct {
	Seq   uint64           `json:"seq"`
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Time  uint64           `json:"time"`
	Event governance.Event `json:"event"`
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	return table
}

func printProposal(w io.Writer, p *governance.Proposal, now uint64) {
	fmt.Fprintf(w, "Proposal:     %d\n", p.ID)
	fmt.Fprintf(w, "Title:        %s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(w, "Description:  %s\n", p.Description)
	}
	fmt.Fprintf(w, "Creator:      %s\n", p.Creator.Hex())
	fmt.Fprintf(w, "State:        %s\n", coloredState(p.State(now)))
	fmt.Fprintf(w, "Voting:       %s .. %s\n", formatTime(p.StartTime), formatTime(p.EndTime))
	fmt.Fprintf(w, "Yes:          %s\n", p.YesVotes.Dec())
	fmt.Fprintf(w, "No:           %s\n", p.NoVotes.Dec())
	fmt.Fprintf(w, "Abstain:      %s\n", p.AbstainVotes.Dec())
	fmt.Fprintf(w, "Quorum:       %s (total %s)\n", p.Quorum.Dec(), p.TotalVotes().Dec())
}

func printProposals(w io.Writer, proposals []*governance.Proposal, now uint64) {
	table := newTable(w, "ID", "Title", "Creator", "State", "Yes", "No", "Abstain", "Quorum", "Ends")
	for _, p := range proposals {
		table.Append([]string{
			strconv.FormatUint(p.ID, 10),
			p.Title,
			p.Creator.Hex(),
			coloredState(p.State(now)),
			p.YesVotes.Dec(),
			p.NoVotes.Dec(),
			p.AbstainVotes.Dec(),
			p.Quorum.Dec(),
			formatTime(p.EndTime),
		})
	}
	table.Render()
}

func newVoterView(e *governance.Engine, addr common.Address) voterView {
	v := e.GetVoter(addr)
	view := voterView{
		Address:        addr.Hex(),
		VotingPower:    v.VotingPower.Dec(),
		EffectivePower: e.GetEffectiveVotingPower(addr).Dec(),
		IsDelegate:     v.IsDelegate,
		DelegatedPower: v.DelegatedPower.Dec(),
		Delegators:     []string{},
		HasVoted:       v.HasVoted,
	}
	if v.HasDelegated() {
		view.Delegate = v.Delegate.Hex()
	}
	if v.HasVoted {
		view.VotedProposal = v.VotedProposal
		view.LastChoice = v.LastChoice.String()
		view.LastVoteTime = v.LastVoteTime
	}
	for _, d := range e.GetDelegators(addr) {
		view.Delegators = append(view.Delegators, d.Hex())
	}
	return view
}

func printVoter(w io.Writer, v voterView) {
	fmt.Fprintf(w, "Address:          %s\n", v.Address)
	fmt.Fprintf(w, "Voting power:     %s\n", v.VotingPower)
	fmt.Fprintf(w, "Effective power:  %s\n", v.EffectivePower)
	if v.Delegate != "" {
		fmt.Fprintf(w, "Delegated to:     %s\n", v.Delegate)
	}
	if v.IsDelegate {
		fmt.Fprintf(w, "Delegated power:  %s (%d delegators)\n", v.DelegatedPower, len(v.Delegators))
	}
	if v.HasVoted {
		fmt.Fprintf(w, "Last vote:        %s on proposal %d at %s\n", v.LastChoice, v.VotedProposal, formatTime(v.LastVoteTime))
	}
}

func newVoteViews(records []governance.VoteRecord) []voteView {
	views := make([]voteView, 0, len(records))
	for _, r := range records {
		views = append(views, voteView{
			ProposalID: r.ProposalID,
			Choice:     r.Choice.String(),
			Power:      r.Power.Dec(),
			Timestamp:  r.Timestamp,
		})
	}
	return views
}

func printHistory(w io.Writer, votes []voteView) {
	table := newTable(w, "Proposal", "Choice", "Power", "Time")
	for _, v := range votes {
		table.Append([]string{strconv.FormatUint(v.ProposalID, 10), v.Choice, v.Power, formatTime(v.Timestamp)})
	}
	table.Render()
}

func newEventViews(entries []*storage.AuditEntry) []eventView {
	views := make([]eventView, 0, len(entries))
	for _, e := range entries {
		views = append(views, eventView{
			Seq:   e.Seq,
			ID:    e.ID.String(),
			Name:  e.Name,
			Time:  e.Time,
			Event: e.Event,
		})
	}
	return views
}

func printEvents(w io.Writer, events []eventView) {
	table := newTable(w, "Seq", "Time", "Event", "Details")
	for _, ev := range events {
		table.Append([]string{
			strconv.FormatUint(ev.Seq, 10),
			formatTime(ev.Time),
			ev.Name,
			fmt.Sprintf("%+v", ev.Event),
		})
	}
	table.Render()
}
