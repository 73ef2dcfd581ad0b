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


// govctl operates a weighted governance engine stored in a local data
// directory. Every invocation runs one operation and persists the result.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const clientIdentifier = "govctl"

// Git SHA1 commit hash of the release (set via linker flags)
var (
	gitCommit = ""
	gitDate   = ""
)

var app = newApp()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = clientIdentifier
	app.Usage = "the weighted governance command line interface"
	app.Version = version()
	app.EnableBashCompletion = true
	app.Metadata = make(map[string]interface{})
	app.Flags = globalFlags
	app.Before = before
	app.After = after
	app.Commands = []*cli.Command{
		initCommand,
		dumpConfigCommand,
		proposeCommand,
		voteCommand,
		delegateCommand,
		executeCommand,
		cancelCommand,
		proposalCommand,
		proposalsCommand,
		voterCommand,
		historyCommand,
		delegatorsCommand,
		eventsCommand,
		adminCommand,
	}
	return app
}

func version() string {
	v := "0.1.0"
	if gitCommit != "" {
		commit := gitCommit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		v += "-" + commit
	}
	if gitDate != "" {
		v += "-" + gitDate
	}
	return v
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
