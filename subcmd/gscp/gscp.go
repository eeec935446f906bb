// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gscp is gscp subcommand to copy a file to Google Storage.
package gscp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/flag/stringmapflag"

	"go.chromium.org/infra/build/botkit/botutil"
	"go.chromium.org/infra/build/botkit/config"
	"go.chromium.org/infra/build/botkit/execute"
	"go.chromium.org/infra/build/botkit/gsutil"
)

const usage = `copy a file to Google Storage

 $ botkit gscp [flags] <file> <gs://bucket/base>

copies <file> to <gs://bucket/base>[/<subdir>]/<dest_filename>.

By default, it runs gsutil. gsutil.py given by -bot-utils-gsutil-py-path
(or $BOTKIT_GSUTIL_PY_PATH) runs with python3.
With -interop, it uploads with the XML API of Google Storage using
HMAC keys in $BOTKIT_GS_HMAC_ACCESS_ID and $BOTKIT_GS_HMAC_SECRET.
`

// Cmd returns the Command for the `gscp` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "gscp [flags] <file> <gs_base>",
		ShortDesc: "copy a file to Google Storage",
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

	gsutilPyPath string
	interop      bool
	subdir       string
	destFilename string
	opts         gsutil.Options
	metadata     stringmapflag.Value

	copier gsutil.Copier
}

func (c *run) init() {
	c.Flags.StringVar(&c.gsutilPyPath, "bot-utils-gsutil-py-path", os.Getenv(config.GSUtilPyEnv), "path to gsutil.py. if empty, gsutil next to the executable is used")
	c.Flags.BoolVar(&c.interop, "interop", false, "upload with the XML API and HMAC keys instead of gsutil")
	c.Flags.StringVar(&c.subdir, "subdir", "", `subdirectory in gs_base. ".." means the parent of gs_base`)
	c.Flags.StringVar(&c.destFilename, "dest_filename", "", "destination filename. default is the base name of file")
	c.Flags.StringVar(&c.opts.MimeType, "mime_type", "", "Content-Type of the object")
	c.Flags.StringVar(&c.opts.ACL, "acl", "", "canned ACL, e.g. public-read")
	c.Flags.StringVar(&c.opts.CacheControl, "cache_control", "", "Cache-Control of the object")
	c.Flags.Var(&c.metadata, "metadata", "key=value metadata of the object. can be repeated")
	c.Flags.BoolVar(&c.opts.Quiet, "q", false, "run gsutil quietly")
	c.Flags.BoolVar(&c.opts.Compress, "Z", false, "upload with gzip content-encoding")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	if err != nil {
		if code, ok := execute.ExitCode(err); ok {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return code
		}
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
	if len(args) != 2 {
		return fmt.Errorf("want <file> <gs_base>, got %q: %w", args, flag.ErrHelp)
	}
	filename, gsBase := args[0], args[1]
	c.opts.Metadata = c.metadata
	copier, err := c.newCopier()
	if err != nil {
		return err
	}
	dest := gsutil.CopyFileDest(filename, gsBase, c.subdir, c.destFilename)
	return copier.Copy(ctx, filename, dest, c.opts)
}

func (c *run) newCopier() (gsutil.Copier, error) {
	if c.copier != nil {
		return c.copier, nil
	}
	if !c.interop {
		return gsutil.CLI{
			Prefix: gsutil.Prefix(c.gsutilPyPath),
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		}, nil
	}
	cfg := config.InteropFromEnv()
	if !cfg.Enabled() {
		return nil, fmt.Errorf("-interop needs $%s and $%s", config.HMACAccessEnv, config.HMACSecretEnv)
	}
	return gsutil.NewInterop(gsutil.InteropConfig{
		Endpoint: cfg.Endpoint,
		AccessID: cfg.AccessID,
		Secret:   cfg.Secret,
	})
}
