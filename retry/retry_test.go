// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package retry_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.chromium.org/luci/common/clock"
	"go.chromium.org/luci/common/clock/testclock"

	"go.chromium.org/infra/build/botkit/retry"
)

func TestDo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no retry", func(t *testing.T) {
		called := 0
		failures, err := retry.Do(ctx, 3, func(context.Context) error {
			called++
			return nil
		})
		if err != nil {
			t.Errorf("want nil, got err: %v", err)
		}
		if called != 1 || failures != 0 {
			t.Errorf("want called=1 failures=0, got called=%d failures=%d", called, failures)
		}
	})

	t.Run("flaky", func(t *testing.T) {
		ctx, c := testclock.UseTime(ctx, time.Now())
		c.SetTimerCallback(func(time.Duration, clock.Timer) {
			c.Add(retry.Delay)
		})

		called := 0
		failures, err := retry.Do(ctx, 3, func(context.Context) error {
			called++
			if called < 3 {
				return fmt.Errorf("flake %d", called)
			}
			return nil
		})
		if err != nil {
			t.Errorf("want nil, got err: %v", err)
		}
		if called != 3 || failures != 2 {
			t.Errorf("want called=3 failures=2, got called=%d failures=%d", called, failures)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		ctx, c := testclock.UseTime(ctx, time.Now())
		c.SetTimerCallback(func(time.Duration, clock.Timer) {
			c.Add(retry.Delay)
		})

		called := 0
		var lastErr error
		failures, err := retry.Do(ctx, 3, func(context.Context) error {
			called++
			lastErr = fmt.Errorf("failure %d", called)
			return lastErr
		})
		if err != lastErr {
			t.Errorf("want last error %v, got err: %v", lastErr, err)
		}
		if called != 3 || failures != 3 {
			t.Errorf("want called=3 failures=3, got called=%d failures=%d", called, failures)
		}
	})

	t.Run("single try", func(t *testing.T) {
		called := 0
		testErr := fmt.Errorf("error")
		failures, err := retry.Do(ctx, 1, func(context.Context) error {
			called++
			return testErr
		})
		if err != testErr {
			t.Errorf("want testErr, got err: %v", err)
		}
		if called != 1 || failures != 1 {
			t.Errorf("want called=1 failures=1, got called=%d failures=%d", called, failures)
		}
	})
}
