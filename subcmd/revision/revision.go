// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package revision is revision subcommand to print revisions of checkouts.
package revision

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/botkit/botutil"
)

const usage = `print revisions of checkouts

 $ botkit revision <dir>...
   prints git hash of each dir.

 $ botkit revision -revision_dir v8 <src dir>
   prints git hash of <src dir>/v8.

 $ botkit revision -commit_position <dir>...
   prints svn revision, commit position or git hash of each dir.

 $ botkit revision -main -build_dir out/Release \
     [-build_properties '<json>'] [-revision <rev>] [-perf [-point_id <id>]]
   prints the revision used as x-value in the perf dashboard,
   or revisions fields sent to the perf dashboard as json with -perf.
`

// Cmd returns the Command for the `revision` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "revision [flags] <dir>...",
		ShortDesc: "print revisions of checkouts",
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

	revisionDir     string
	commitPosition  bool
	main            bool
	perf            bool
	buildDir        string
	buildProperties string
	revision        string
	pointID         string

	revs botutil.Revisions
	out  io.Writer
}

func (c *run) init() {
	c.Flags.StringVar(&c.revisionDir, "revision_dir", "", "directory relative to the src dir to get revision of")
	c.Flags.BoolVar(&c.commitPosition, "commit_position", false, "print svn revision or commit position if available")
	c.Flags.BoolVar(&c.main, "main", false, "print main revision for the perf dashboard")
	c.Flags.BoolVar(&c.perf, "perf", false, "with -main, print revisions for the perf dashboard as json")
	c.Flags.StringVar(&c.buildDir, "build_dir", "", "build dir. its parent is used to find main revision")
	c.Flags.StringVar(&c.buildProperties, "build_properties", "{}", "build properties in json")
	c.Flags.StringVar(&c.revision, "revision", "", "revision. used as main revision if it is numeric")
	c.Flags.StringVar(&c.pointID, "point_id", "", "point id for the perf dashboard")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	if c.out == nil {
		c.out = a.GetOut()
	}
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return botutil.ErrorExitCode
	}
	return 0
}

func (c *run) run(ctx context.Context, args []string) error {
	switch {
	case c.main:
		return c.mainRevision(ctx, args)
	case c.revisionDir != "":
		if len(args) != 1 {
			return fmt.Errorf("-revision_dir needs one src dir: %w", flag.ErrHelp)
		}
		rev, err := c.revs.BuildRevision(ctx, args[0], c.revisionDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, rev)
		return nil
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	if c.commitPosition {
		for _, dir := range args {
			fmt.Fprintf(c.out, "%s\t%s\n", dir, c.revs.Revision(ctx, dir))
		}
		return nil
	}
	revs, err := c.revs.BuildRevisions(ctx, args)
	if err != nil {
		return err
	}
	for i, dir := range args {
		fmt.Fprintf(c.out, "%s\t%s\n", dir, revs[i])
	}
	return nil
}

func (c *run) mainRevision(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("position arguments not expected with -main: %w", flag.ErrHelp)
	}
	if c.buildDir == "" {
		return fmt.Errorf("-build_dir is required: %w", flag.ErrHelp)
	}
	var props map[string]any
	err := json.Unmarshal([]byte(c.buildProperties), &props)
	if err != nil {
		return fmt.Errorf("bad -build_properties: %w", err)
	}
	rev, err := c.revs.MainRevision(ctx, props, c.buildDir, c.revision)
	if err != nil {
		return err
	}
	if !c.perf {
		fmt.Fprintln(c.out, rev)
		return nil
	}
	buf, err := json.Marshal(botutil.PerfDashboardRevisions(props, rev, c.pointID))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s\n", buf)
	return nil
}
