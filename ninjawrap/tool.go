// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjawrap

import (
	"bytes"
	"context"
	"fmt"

	"go.chromium.org/infra/build/botkit/execute"
)

// Tool runs a ninja subtool (`ninja -t deps`, `ninja -t graph`).
type Tool interface {
	// Output runs args and returns its stdout.
	Output(ctx context.Context, args []string) ([]byte, error)
}

// ExecTool runs ninja subtools with an executor.
type ExecTool struct {
	// Executor defaults to execute.Local.
	Executor execute.Executor
	// Env is the environment of the process. nil means the current one.
	Env []string
}

// Output implements Tool.
func (t ExecTool) Output(ctx context.Context, args []string) ([]byte, error) {
	e := t.Executor
	if e == nil {
		e = execute.Local{}
	}
	var stdout, stderr bytes.Buffer
	err := e.Run(ctx, &execute.Cmd{
		Args:   args,
		Env:    t.Env,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
