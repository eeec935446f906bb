// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ninjawrap runs a ninja build and explains its failures.
//
// With an info output file, the wrapper tees ninja's stdout, and when the
// build fails it writes the failed edges, their output and the source
// files they depend on as JSON:
//
//	{
//	  "failures": [
//	    {
//	      "output_nodes": ["obj/a.o"],
//	      "rule": "CXX",
//	      "output": "...",
//	      "dependencies": ["../../a.cc", ...]
//	    }
//	  ],
//	  "warnings": [...]
//	}
package ninjawrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/botkit/execute"
	"go.chromium.org/infra/build/botkit/toolsupport/ninjautil"
)

// UnrecognizedFailure is written to the failure output file when ninja
// failed but no failed edge was recognized in its stdout.
const UnrecognizedFailure = "Unrecognized failures, please check the original stdout instead."

// Options are options of a wrapped ninja build.
type Options struct {
	// Command is the ninja command line. The first element is the
	// path of ninja.
	Command []string

	// InfoOutput is a file to write detailed failure info to.
	// If empty, ninja just runs.
	InfoOutput string

	// FailureOutput is a file to write output of failed edges to.
	FailureOutput string

	// Env is the environment of ninja. nil means the current one.
	Env []string

	Stdout io.Writer
	Stderr io.Writer
}

// Wrapper runs ninja.
type Wrapper struct {
	// Executor runs ninja. Defaults to execute.Local.
	Executor execute.Executor
	// Tool runs ninja subtools. Defaults to ExecTool with Executor.
	Tool Tool
}

// Run runs ninja and returns its exit code.
// An error is returned only when ninja could not run, or the info
// files could not be written.
func (wr Wrapper) Run(ctx context.Context, opts Options) (int, error) {
	if len(opts.Command) == 0 {
		return 0, errors.New("no ninja command")
	}
	e := wr.Executor
	if e == nil {
		e = execute.Local{}
	}
	cmd := &execute.Cmd{
		Args:   opts.Command,
		Env:    opts.Env,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if opts.InfoOutput == "" {
		cmd.Stdin = os.Stdin
		return exitCode(e.Run(ctx, cmd))
	}

	// ninja prints build progress and failures to stdout.
	w := &ninjautil.Warnings{}
	p := ninjautil.NewOutputParser(w)
	lw := &execute.LineWriter{F: p.Parse}
	cmd.Stdout = io.MultiWriter(cmd.Stdout, lw)
	code, err := exitCode(e.Run(ctx, cmd))
	_ = lw.Close()
	p.Flush()
	if err != nil {
		return code, fmt.Errorf("failed to run %q: %w", opts.Command, err)
	}
	if code == 0 {
		return 0, nil
	}
	log.Infof("ninja exit=%d: %d failures", code, len(p.Failures()))

	tool := wr.Tool
	if tool == nil {
		tool = ExecTool{Executor: e, Env: opts.Env}
	}
	info := Detail(ctx, tool, opts.Command[0], BuildDir(opts.Command), p.Failures(), w)
	info.Warnings = w.List()
	buf, err := json.Marshal(info)
	if err != nil {
		return code, err
	}
	err = os.WriteFile(opts.InfoOutput, buf, 0644)
	if err != nil {
		return code, fmt.Errorf("failed to write ninja info: %w", err)
	}
	if opts.FailureOutput != "" {
		out := p.FailureOutput()
		if out == "" {
			out = UnrecognizedFailure
		}
		err = os.WriteFile(opts.FailureOutput, []byte(out), 0644)
		if err != nil {
			return code, fmt.Errorf("failed to write failure output: %w", err)
		}
	}
	return code, nil
}

// BuildDir returns the directory given by -C in a ninja command line.
func BuildDir(args []string) string {
	for i, arg := range args {
		if arg == "-C" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func exitCode(err error) (int, error) {
	if code, ok := execute.ExitCode(err); ok {
		return code, nil
	}
	return 1, err
}
