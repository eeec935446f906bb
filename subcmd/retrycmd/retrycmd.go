// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package retrycmd is retry subcommand to run a flaky step with retries.
package retrycmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/botkit/botutil"
	"go.chromium.org/infra/build/botkit/execute"
	"go.chromium.org/infra/build/botkit/retry"
)

const usage = `run a command with retries

 $ botkit retry [-max_tries 3] -- <command>...

Runs the command until it succeeds, up to max_tries times.
Exits with 88 (warning) if it succeeded after failures, or
with the exit code of the last attempt if all attempts failed.
`

// Cmd returns the Command for the `retry` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "retry [-max_tries <n>] -- <command>...",
		ShortDesc: "run a command with retries",
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

	maxTries int

	executor execute.Executor
}

func (c *run) init() {
	c.Flags.IntVar(&c.maxTries, "max_tries", retry.DefaultMaxTries, "max number of attempts")
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
	}
	return exitCode
}

func (c *run) run(ctx context.Context, args []string) (int, error) {
	if len(args) == 0 {
		return botutil.ErrorExitCode, fmt.Errorf("missing command: %w", flag.ErrHelp)
	}
	if c.maxTries < 1 {
		return botutil.ErrorExitCode, fmt.Errorf("-max_tries must be positive: %w", flag.ErrHelp)
	}
	e := c.executor
	if e == nil {
		e = execute.Local{}
	}
	failures, err := retry.Do(ctx, c.maxTries, func(ctx context.Context) error {
		return e.Run(ctx, &execute.Cmd{
			Args:   args,
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		})
	})
	switch {
	case err == nil && failures == 0:
		return 0, nil
	case err == nil:
		log.Warnf("%q succeeded after %d failure(s)", args, failures)
		return botutil.WarningExitCode, nil
	}
	code, ok := execute.ExitCode(err)
	if !ok || code == 0 {
		return botutil.ErrorExitCode, err
	}
	return code, fmt.Errorf("%q failed %d time(s): %w", args, failures, err)
}
