// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package help provides help subcommand.
package help

import (
	"fmt"
	"io"

	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/botkit/config"
)

// Cmd returns the Command for the `help` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "help [<command>|-advanced]",
		ShortDesc: "prints help about a command",
		LongDesc:  "Prints commands and environment variables or help about a specific command.\nUse -advanced to display all commands.",
		CommandRun: func() subcommands.CommandRun {
			ret := &helpCmdRun{}
			ret.Flags.BoolVar(&ret.advanced, "advanced", false, "show advanced commands")
			return ret
		},
	}
}

type helpCmdRun struct {
	subcommands.CommandRunBase
	advanced bool
}

var envVars = []struct {
	name, desc string
}{
	{config.EnvFileEnv, "env file to load. default .botkit.env if exists"},
	{config.LogLevelEnv, "log level: debug, info, warn or error"},
	{config.GSUtilPyEnv, "default of gscp -bot-utils-gsutil-py-path"},
	{config.HMACAccessEnv, "HMAC access id for gscp -interop"},
	{config.HMACSecretEnv, "HMAC secret for gscp -interop"},
	{config.GSEndpointEnv, "XML API endpoint for gscp -interop"},
}

func (h *helpCmdRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	// For top-level help, print subcommands.Usage. Then print env vars.
	if len(args) == 0 {
		subcommands.Usage(a.GetOut(), a, h.advanced)
		printEnvVars(a.GetOut())
		return 0
	}

	// Use default subcommands.CmdHelp for all other cases.
	helpInit := subcommands.CmdHelp.CommandRun()
	return helpInit.Run(a, args, env)
}

func printEnvVars(w io.Writer) {
	fmt.Fprintln(w, "Environment variables:")
	for _, v := range envVars {
		fmt.Fprintf(w, "  %-26s %s\n", v.name, v.desc)
	}
}
