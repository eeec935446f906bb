// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ninja is ninja subcommand to run a ninja build and explain its failures.
package ninja

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/environ"

	"go.chromium.org/infra/build/botkit/ninjawrap"
)

const usage = `run a ninja build

 $ botkit ninja [-o <info.json>] [-failure_output <file>] -- \
     /path/to/ninja -C out/Release chrome

Runs ninja, and when it fails, writes the failed build edges
with their output and the source files they depend on to
the info output file as JSON. Exit code is ninja's exit code.
`

// Cmd returns the Command for the `ninja` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "ninja [-o <file>] [-failure_output <file>] -- <ninja command>...",
		ShortDesc: "run a ninja build and explain its failures",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	infoOutput    string
	failureOutput string
	noPruneVenv   bool

	wrapper ninjawrap.Wrapper
}

func (c *run) init() {
	c.Flags.StringVar(&c.infoOutput, "o", "", "save failure info in the file as json. alias of -ninja_info_output")
	c.Flags.StringVar(&c.infoOutput, "ninja_info_output", "", "save failure info in the file as json")
	c.Flags.StringVar(&c.failureOutput, "failure_output", "", "save output of failed build edges in the file")
	c.Flags.BoolVar(&c.noPruneVenv, "no_prune_venv", false, "don't prune the python virtualenv from ninja's environment")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	exitCode, err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return exitCode
}

func (c *run) run(ctx context.Context, args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing ninja command: %w", flag.ErrHelp)
	}
	env := environ.System()
	if !c.noPruneVenv {
		env = ninjawrap.PruneVirtualEnv(env)
	}
	log.Debugf("ninja command: %q", args)
	return c.wrapper.Run(ctx, ninjawrap.Options{
		Command:       args,
		InfoOutput:    c.infoOutput,
		FailureOutput: c.failureOutput,
		Env:           env.Sorted(),
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	})
}
