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
	"fmt"

	"github.com/urfave/cli/v2"
)

var sinceFlag = &cli.Uint64Flag{
	Name:  "since",
	Usage: "First audit sequence number to show",
}

var (
	proposalCommand = &cli.Command{
		Action:    showProposal,
		Name:      "proposal",
		Usage:     "Show one proposal and its derived state",
		ArgsUsage: "<proposal-id>",
		Flags:     []cli.Flag{jsonFlag},
	}
	proposalsCommand = &cli.Command{
		Action: listProposals,
		Name:   "proposals",
		Usage:  "List all proposals",
		Flags:  []cli.Flag{jsonFlag},
	}
	voterCommand = &cli.Command{
		Action:    showVoter,
		Name:      "voter",
		Usage:     "Show a voter record and its effective power",
		ArgsUsage: "<address>",
		Flags:     []cli.Flag{jsonFlag},
	}
	historyCommand = &cli.Command{
		Action:    showHistory,
		Name:      "history",
		Usage:     "Show every vote an address cast",
		ArgsUsage: "<address>",
		Flags:     []cli.Flag{jsonFlag},
	}
	delegatorsCommand = &cli.Command{
		Action:    showDelegators,
		Name:      "delegators",
		Usage:     "List the voters that delegated to an address",
		ArgsUsage: "<address>",
		Flags:     []cli.Flag{jsonFlag},
	}
	eventsCommand = &cli.Command{
		Action: showEvents,
		Name:   "events",
		Usage:  "Show the audit trail of governance events",
		Flags:  []cli.Flag{sinceFlag, jsonFlag},
	}
)

func showProposal(ctx *cli.Context) error {
	if err := checkArgs(ctx, "proposal-id"); err != nil {
		return err
	}
	id, err := parseID(ctx.Args().First())
	if err != nil {
		return err
	}
	return query(ctx, func(s *session) error {
		p, err := s.engine.GetProposal(id)
		if err != nil {
			return err
		}
		now := s.engine.Now()
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(ctx.App.Writer, newProposalView(p, now))
		}
		printProposal(ctx.App.Writer, p, now)
		return nil
	})
}

func listProposals(ctx *cli.Context) error {
	if err := checkArgs(ctx); err != nil {
		return err
	}
	return query(ctx, func(s *session) error {
		proposals := s.engine.Proposals()
		now := s.engine.Now()
		if ctx.Bool(jsonFlag.Name) {
			views := make([]proposalView, 0, len(proposals))
			for _, p := range proposals {
				views = append(views, newProposalView(p, now))
			}
			return printJSON(ctx.App.Writer, views)
		}
		printProposals(ctx.App.Writer, proposals, now)
		return nil
	})
}

func showVoter(ctx *cli.Context) error {
	if err := checkArgs(ctx, "address"); err != nil {
		return err
	}
	addr, err := parseAddress(ctx.Args().First())
	if err != nil {
		return err
	}
	return query(ctx, func(s *session) error {
		view := newVoterView(s.engine, addr)
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(ctx.App.Writer, view)
		}
		printVoter(ctx.App.Writer, view)
		return nil
	})
}

func showHistory(ctx *cli.Context) error {
	if err := checkArgs(ctx, "address"); err != nil {
		return err
	}
	addr, err := parseAddress(ctx.Args().First())
	if err != nil {
		return err
	}
	return query(ctx, func(s *session) error {
		votes := newVoteViews(s.engine.GetVoteHistory(addr))
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(ctx.App.Writer, votes)
		}
		printHistory(ctx.App.Writer, votes)
		return nil
	})
}

func showDelegators(ctx *cli.Context) error {
	if err := checkArgs(ctx, "address"); err != nil {
		return err
	}
	addr, err := parseAddress(ctx.Args().First())
	if err != nil {
		return err
	}
	return query(ctx, func(s *session) error {
		delegators := s.engine.GetDelegators(addr)
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(ctx.App.Writer, delegators)
		}
		for _, d := range delegators {
			fmt.Fprintln(ctx.App.Writer, d.Hex())
		}
		return nil
	})
}

func showEvents(ctx *cli.Context) error {
	if err := checkArgs(ctx); err != nil {
		return err
	}
	return query(ctx, func(s *session) error {
		entries, err := s.store.Events(ctx.Uint64(sinceFlag.Name))
		if err != nil {
			return err
		}
		views := newEventViews(entries)
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(ctx.App.Writer, views)
		}
		printEvents(ctx.App.Writer, views)
		return nil
	})
}
