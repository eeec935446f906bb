// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package retry provides retrying of flaky bot steps.
package retry

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/retry"
	"go.chromium.org/luci/common/retry/transient"
)

// DefaultMaxTries is the number of attempts used by the bot scripts.
const DefaultMaxTries = 3

// Delay is the wait between attempts.
var Delay = 5 * time.Second

// Do calls f up to maxTries times until it succeeds.
// It returns the number of failed attempts and the error of the last
// attempt, or nil if some attempt succeeded.
// Failed attempts before the last are logged as warnings.
func Do(ctx context.Context, maxTries int, f func(ctx context.Context) error) (int, error) {
	if maxTries < 1 {
		maxTries = 1
	}
	failures := 0
	var last error
	err := retry.Retry(ctx, transient.Only(func() retry.Iterator {
		return &retry.Limited{
			Delay:   Delay,
			Retries: maxTries - 1,
		}
	}), func() error {
		last = f(ctx)
		if last == nil {
			return nil
		}
		failures++
		if ctx.Err() != nil {
			return last
		}
		return errors.Annotate(last, "attempt %d/%d", failures, maxTries).Tag(transient.Tag).Err()
	}, func(err error, backoff time.Duration) {
		log.Warnf("failed; retrying in %s: %v", backoff, err)
	})
	if err == nil {
		return failures, nil
	}
	if last == nil {
		// ctx was done before the first attempt.
		return failures, err
	}
	return failures, last
}
