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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/mccoysc/xchain-gov/governance"
	"github.com/mccoysc/xchain-gov/storage"
)

var (
	adminFlag = &cli.StringFlag{
		Name:  "admin",
		Usage: "Administrator address, overrides the configured one",
	}
	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format ('toml' or 'yaml')",
		Value: "toml",
	}
	titleFlag = &cli.StringFlag{
		Name:     "title",
		Usage:    "Proposal title",
		Required: true,
	}
	descriptionFlag = &cli.StringFlag{
		Name:  "description",
		Usage: "Proposal description",
	}
	durationFlag = &cli.StringFlag{
		Name:     "duration",
		Usage:    "Voting window, in seconds or as a duration such as 72h",
		Required: true,
	}
	quorumFlag = &cli.StringFlag{
		Name:     "quorum",
		Usage:    "Total weight of votes required for execution",
		Required: true,
	}
)

var (
	initCommand = &cli.Command{
		Action: initGovernance,
		Name:   "init",
		Usage:  "Create a new governance state in the data directory",
		Flags:  []cli.Flag{adminFlag},
		Description: `
The init command writes the initial engine state: the administrator and the
parameters from the governance section of the configuration. It fails if the
data directory already holds a governance state.`,
	}
	dumpConfigCommand = &cli.Command{
		Action:    dumpConfig,
		Name:      "dumpconfig",
		Usage:     "Export the effective configuration",
		ArgsUsage: " ",
		Flags:     []cli.Flag{formatFlag},
	}
	proposeCommand = &cli.Command{
		Action: propose,
		Name:   "propose",
		Usage:  "Open a new proposal",
		Flags:  []cli.Flag{titleFlag, descriptionFlag, durationFlag, quorumFlag},
	}
	voteCommand = &cli.Command{
		Action:    vote,
		Name:      "vote",
		Usage:     "Cast the caller's effective power on a proposal",
		ArgsUsage: "<proposal-id> <yes|no|abstain>",
	}
	delegateCommand = &cli.Command{
		Action:    delegate,
		Name:      "delegate",
		Usage:     "Delegate the caller's power to another voter",
		ArgsUsage: "<address>",
		Description: `
Delegation is permanent and only one hop deep: the delegate receives the
caller's own power, but not power that was delegated to the caller.`,
	}
	executeCommand = &cli.Command{
		Action:    execute,
		Name:      "execute",
		Usage:     "Finalize a proposal after voting and the execution delay",
		ArgsUsage: "<proposal-id>",
	}
	cancelCommand = &cli.Command{
		Action:    cancel,
		Name:      "cancel",
		Usage:     "Withdraw a proposal the caller created",
		ArgsUsage: "<proposal-id>",
	}
)

func initGovernance(ctx *cli.Context) error {
	cfg := configFrom(ctx)
	if ctx.IsSet(adminFlag.Name) {
		cfg.Admin = ctx.String(adminFlag.Name)
	}
	admin, err := cfg.AdminAddress()
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	lock, store, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer func() {
		store.Close()
		if lock != nil {
			lock.Unlock()
		}
	}()

	if _, err := store.LoadSnapshot(); err == nil {
		return fmt.Errorf("datadir %s is already initialized", cfg.DataDir)
	} else if !errors.Is(err, storage.ErrNoState) {
		return err
	}
	engine, err := governance.NewEngine(admin, params, clockFrom(ctx))
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := store.SaveSnapshot(engine.Snapshot()); err != nil {
		return err
	}
	log.Info("Initialized governance state", "admin", admin, "datadir", cfg.DataDir, "engine", cfg.DB.Engine)
	fmt.Fprintf(ctx.App.Writer, "Initialized governance state administered by %s\n", admin.Hex())
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	return configFrom(ctx).Dump(ctx.App.Writer, ctx.String(formatFlag.Name))
}

func propose(ctx *cli.Context) error {
	duration, err := parseSeconds(ctx.String(durationFlag.Name))
	if err != nil {
		return err
	}
	quorum, err := parsePower(ctx.String(quorumFlag.Name))
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		id, err := e.CreateProposal(caller, ctx.String(titleFlag.Name), ctx.String(descriptionFlag.Name), duration, quorum)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Created proposal %d, voting ends %s\n", id, formatTime(e.Now()+duration))
		return nil
	})
}

func vote(ctx *cli.Context) error {
	if err := checkArgs(ctx, "proposal-id", "choice"); err != nil {
		return err
	}
	id, err := parseID(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	choice, err := governance.ParseChoice(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := e.Vote(caller, id, choice); err != nil {
			return err
		}
		history := e.GetVoteHistory(caller)
		last := history[len(history)-1]
		fmt.Fprintf(ctx.App.Writer, "Voted %s on proposal %d with power %s\n", choice, id, last.Power.Dec())
		return nil
	})
}

func delegate(ctx *cli.Context) error {
	if err := checkArgs(ctx, "address"); err != nil {
		return err
	}
	to, err := parseAddress(ctx.Args().First())
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := e.Delegate(caller, to); err != nil {
			return err
		}
		voter := e.GetVoter(caller)
		fmt.Fprintf(ctx.App.Writer, "Delegated %s to %s\n", voter.VotingPower.Dec(), to.Hex())
		return nil
	})
}

func execute(ctx *cli.Context) error {
	if err := checkArgs(ctx, "proposal-id"); err != nil {
		return err
	}
	id, err := parseID(ctx.Args().First())
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		executed, err := e.ExecuteProposal(caller, id)
		if err != nil {
			return err
		}
		if !executed {
			p, err := e.GetProposal(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "Proposal %d rejected: yes %s does not exceed no %s\n", id, p.YesVotes.Dec(), p.NoVotes.Dec())
			return nil
		}
		fmt.Fprintf(ctx.App.Writer, "Proposal %d executed\n", id)
		return nil
	})
}

func cancel(ctx *cli.Context) error {
	if err := checkArgs(ctx, "proposal-id"); err != nil {
		return err
	}
	id, err := parseID(ctx.Args().First())
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := e.CancelProposal(caller, id); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Proposal %d canceled\n", id)
		return nil
	})
}
