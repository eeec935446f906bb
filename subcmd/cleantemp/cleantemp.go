// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cleantemp is cleantemp subcommand to remove leaked Chrome temporary files.
package cleantemp

import (
	"fmt"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/botkit/botutil"
)

// Cmd returns the Command for the `cleantemp` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "cleantemp",
		ShortDesc: "remove leaked Chrome temporary files",
		LongDesc:  "Removes files leaked by crashed or killed tests: Chrome temp files on linux, crash dumps on mac, desktop shortcuts, old snapshots and jump lists on windows.",
		CommandRun: func() subcommands.CommandRun {
			return &run{}
		},
	}
}

type run struct {
	subcommands.CommandRunBase
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return botutil.ErrorExitCode
	}
	err := botutil.RemoveChromeTemporaryFiles(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return botutil.ErrorExitCode
	}
	return 0
}
