// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package execute runs commands.
package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Executor is an interface to run the cmd.
type Executor interface {
	Run(ctx context.Context, cmd *Cmd) error
}

// Cmd is a command to run.
type Cmd struct {
	// Args holds command line arguments. Args[0] is the executable.
	Args []string

	// Env specifies the environment of the process.
	// nil means the environment of the current process.
	Env []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String returns the command line.
func (c *Cmd) String() string {
	return strings.Join(c.Args, " ")
}

// ExitError is an error of cmd exit.
type ExitError struct {
	ExitCode int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit=%d", e.ExitCode)
}

// ExitCode returns the exit code carried by err.
// It returns 0 for nil, and -1 with false if err is not an exit error.
func ExitCode(err error) (int, bool) {
	if err == nil {
		return 0, true
	}
	var eerr ExitError
	if errors.As(err, &eerr) {
		return eerr.ExitCode, true
	}
	return -1, false
}

// Local implements Executor by running commands as local processes.
type Local struct{}

// Run runs cmd with Local.
func Run(ctx context.Context, cmd *Cmd) error {
	return Local{}.Run(ctx, cmd)
}

// Run runs a cmd. A non-zero exit is reported as ExitError.
func (Local) Run(ctx context.Context, cmd *Cmd) error {
	if len(cmd.Args) == 0 {
		return errors.New("no arguments in the command")
	}
	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Env = cmd.Env
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr
	s := time.Now()
	err := c.Run()
	log.Debugf("run %q dir=%q: %s %v", cmd.Args, cmd.Dir, time.Since(s), err)
	var eerr *exec.ExitError
	if errors.As(err, &eerr) {
		return ExitError{ExitCode: eerr.ExitCode()}
	}
	return err
}

// Output runs cmd with e and returns its combined stdout and stderr.
// cmd.Stdout and cmd.Stderr are ignored.
func Output(ctx context.Context, e Executor, cmd *Cmd) ([]byte, error) {
	var buf bytes.Buffer
	c := *cmd
	c.Stdout = &buf
	c.Stderr = &buf
	err := e.Run(ctx, &c)
	return buf.Bytes(), err
}
