// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Botkit is a set of tools for build bots: a ninja wrapper explaining
// build failures, and helpers for revisions, Google Storage uploads,
// step retries and temp file cleanup.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/botkit/botutil"
	"go.chromium.org/infra/build/botkit/config"
	"go.chromium.org/infra/build/botkit/subcmd/cleantemp"
	"go.chromium.org/infra/build/botkit/subcmd/gscp"
	"go.chromium.org/infra/build/botkit/subcmd/help"
	"go.chromium.org/infra/build/botkit/subcmd/ninja"
	"go.chromium.org/infra/build/botkit/subcmd/retrycmd"
	"go.chromium.org/infra/build/botkit/subcmd/revision"
	"go.chromium.org/infra/build/botkit/subcmd/version"
)

const botkitVersion = "v1.0.0"

func main() {
	os.Exit(botkitMain(os.Args[1:]))
}

func getApplication() *cli.Application {
	return &cli.Application{
		Name:  "botkit",
		Title: "Build bot tools",
		Commands: []*subcommands.Command{
			ninja.Cmd(),
			revision.Cmd(),
			gscp.Cmd(),
			retrycmd.Cmd(),
			cleantemp.Cmd(),

			help.Cmd(),
			version.Cmd(botkitVersion),
		},
	}
}

func botkitMain(args []string) int {
	err := config.LoadEnvFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return botutil.ErrorExitCode
	}
	err = config.SetupLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return botutil.ErrorExitCode
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer signals.HandleInterrupt(cancel)()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	logBuildInfo()

	app := getApplication()
	app.Context = func(context.Context) context.Context {
		return ctx
	}
	return subcommands.Run(app, args)
}

// logBuildInfo prints build information to the debug log.
func logBuildInfo() {
	buildinfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	log.Debugf("main module: %s %s", moduleInfo(&buildinfo.Main), vcsInfo(buildinfo))
	for _, m := range buildinfo.Deps {
		log.Debugf("deps module: %s", moduleInfo(m))
	}
}

func moduleInfo(m *debug.Module) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("path:%s version:%s sum:%s replace:%s", m.Path, m.Version, m.Sum, moduleInfo(m.Replace))
}

func vcsInfo(buildinfo *debug.BuildInfo) string {
	m := make(map[string]string)
	for _, bs := range buildinfo.Settings {
		if strings.HasPrefix(bs.Key, "vcs.") {
			m[bs.Key] = bs.Value
		}
	}
	return fmt.Sprintf("vcs[revision=%s time=%s modified=%s]", m["vcs.revision"], m["vcs.time"], m["vcs.modified"])
}
