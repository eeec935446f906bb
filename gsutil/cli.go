// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gsutil

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/botkit/execute"
)

// CLI copies files by running gsutil.
type CLI struct {
	// Executor defaults to execute.Local.
	Executor execute.Executor
	// Prefix is the command to run gsutil. See Prefix.
	Prefix []string
	Stdout io.Writer
	Stderr io.Writer
}

// Copy runs gsutil cp. A non-zero exit of gsutil is reported as
// execute.ExitError.
func (c CLI) Copy(ctx context.Context, src, dst string, opts Options) error {
	e := c.Executor
	if e == nil {
		e = execute.Local{}
	}
	prefix := c.Prefix
	if len(prefix) == 0 {
		prefix = Prefix("")
	}
	cmd := &execute.Cmd{
		Args:   Command(prefix, src, dst, opts),
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	}
	log.Infof("run %s", cmd)
	err := e.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("gsutil cp %s %s: %w", src, dst, err)
	}
	return nil
}
