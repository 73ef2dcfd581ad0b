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

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/mccoysc/xchain-gov/governance"
)

var adminCommand = &cli.Command{
	Name:  "admin",
	Usage: "Administrator operations; --from must be the administrator",
	Subcommands: []*cli.Command{
		{
			Action:    setPower,
			Name:      "set-power",
			Usage:     "Assign own voting power to a voter, registering it if new",
			ArgsUsage: "<address> <power>",
		},
		{
			Action:    setQuorum,
			Name:      "set-quorum",
			Usage:     "Update the default quorum parameter",
			ArgsUsage: "<quorum>",
		},
		{
			Action:    setDelay,
			Name:      "set-delay",
			Usage:     "Update the execution delay after voting ends",
			ArgsUsage: "<duration>",
		},
		{
			Action:    setDurations,
			Name:      "set-durations",
			Usage:     "Update the accepted proposal duration range",
			ArgsUsage: "<min> <max>",
		},
		{
			Action: func(ctx *cli.Context) error {
				return adminMutate(ctx, "Governance paused", (*governance.Engine).Pause)
			},
			Name:  "pause",
			Usage: "Reject every non-admin operation until unpaused",
		},
		{
			Action: func(ctx *cli.Context) error {
				return adminMutate(ctx, "Governance unpaused", (*governance.Engine).Unpause)
			},
			Name:  "unpause",
			Usage: "Resume normal operation",
		},
		{
			Action:    removeVoter,
			Name:      "remove-voter",
			Usage:     "Erase a voter record",
			ArgsUsage: "<address>",
		},
		{
			Action:    emergencyCancel,
			Name:      "cancel",
			Usage:     "Cancel any open proposal, even after voting ended",
			ArgsUsage: "<proposal-id>",
		},
	},
}

func adminMutate(ctx *cli.Context, done string, fn func(e *governance.Engine, caller common.Address) error) error {
	if err := checkArgs(ctx); err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := fn(e, caller); err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, done)
		return nil
	})
}

func setPower(ctx *cli.Context) error {
	if err := checkArgs(ctx, "address", "power"); err != nil {
		return err
	}
	voter, err := parseAddress(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	power, err := parsePower(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := e.SetVotingPower(caller, voter, power); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Voting power of %s set to %s\n", voter.Hex(), power.Dec())
		return nil
	})
}

func setQuorum(ctx *cli.Context) error {
	if err := checkArgs(ctx, "quorum"); err != nil {
		return err
	}
	quorum, err := parsePower(ctx.Args().First())
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := e.SetQuorum(caller, quorum); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Default quorum set to %s\n", quorum.Dec())
		return nil
	})
}

func setDelay(ctx *cli.Context) error {
	if err := checkArgs(ctx, "duration"); err != nil {
		return err
	}
	delay, err := parseSeconds(ctx.Args().First())
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := e.SetExecutionDelay(caller, delay); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Execution delay set to %ds\n", delay)
		return nil
	})
}

func setDurations(ctx *cli.Context) error {
	if err := checkArgs(ctx, "min", "max"); err != nil {
		return err
	}
	min, err := parseSeconds(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	max, err := parseSeconds(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := e.SetProposalDurationLimits(caller, min, max); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Proposal durations set to %ds..%ds\n", min, max)
		return nil
	})
}

func removeVoter(ctx *cli.Context) error {
	if err := checkArgs(ctx, "address"); err != nil {
		return err
	}
	voter, err := parseAddress(ctx.Args().First())
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := e.EmergencyRemoveVoter(caller, voter); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Voter %s removed\n", voter.Hex())
		return nil
	})
}

func emergencyCancel(ctx *cli.Context) error {
	if err := checkArgs(ctx, "proposal-id"); err != nil {
		return err
	}
	id, err := parseID(ctx.Args().First())
	if err != nil {
		return err
	}
	return mutate(ctx, func(e *governance.Engine, caller common.Address) error {
		if err := e.EmergencyCancelProposal(caller, id); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Proposal %d canceled by the administrator\n", id)
		return nil
	})
}
