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
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mccoysc/xchain-gov/internal/config"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "TOML or YAML configuration file",
		EnvVars: []string{"XCHAIN_GOV_CONFIG"},
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the governance database",
	}
	dbEngineFlag = &cli.StringFlag{
		Name:  "db.engine",
		Usage: "Backing database implementation to use ('leveldb', 'pebble' or 'memory')",
	}
	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "Caller address, as authenticated by the host",
	}
	nowFlag = &cli.Uint64Flag{
		Name:  "now",
		Usage: "Run the operation at this unix time instead of the system clock",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write JSON logs to a rotated file instead of the terminal",
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Output JSON instead of human-readable format",
	}
)

var globalFlags = []cli.Flag{
	configFileFlag,
	dataDirFlag,
	dbEngineFlag,
	fromFlag,
	nowFlag,
	verbosityFlag,
	logFileFlag,
}

const configKey = "config"

// before loads the configuration and installs the log handler.
func before(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	ctx.App.Metadata[configKey] = cfg
	if closer := setupLogging(cfg.Log, ctx.App.ErrWriter); closer != nil {
		ctx.App.Metadata[logCloserKey] = closer
	}
	return nil
}

// after flushes the rotated log file, if any.
func after(ctx *cli.Context) error {
	if closer, ok := ctx.App.Metadata[logCloserKey].(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// loadConfig layers the configuration file, the environment and the global
// flags, in that order.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String(configFileFlag.Name))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(dbEngineFlag.Name) {
		cfg.DB.Engine = ctx.String(dbEngineFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if ctx.IsSet(logFileFlag.Name) {
		cfg.Log.File = ctx.String(logFileFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func configFrom(ctx *cli.Context) *config.Config {
	return ctx.App.Metadata[configKey].(*config.Config)
}

const logCloserKey = "logfile"

// setupLogging installs the root log handler. Terminal output is colored
// when stderr is a terminal; a configured log file receives JSON records
// and is returned so it can be closed on exit.
func setupLogging(cfg config.LogConfig, stderr io.Writer) io.Closer {
	var (
		handler    slog.Handler
		logRotator *lumberjack.Logger
	)
	switch {
	case cfg.File != "":
		logRotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		handler = log.JSONHandler(logRotator)
	default:
		output := stderr
		useColor := false
		if stderr == os.Stderr {
			useColor = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
			if useColor {
				output = colorable.NewColorableStderr()
			}
		}
		handler = log.NewTerminalHandler(output, useColor)
	}
	glogger := log.NewGlogHandler(handler)
	glogger.Verbosity(log.FromLegacyLevel(cfg.Verbosity))
	log.SetDefault(log.NewLogger(glogger))

	if logRotator == nil {
		return nil
	}
	return logRotator
}
