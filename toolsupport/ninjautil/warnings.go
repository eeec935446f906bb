// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjautil

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Warnings collects non-fatal problems found while parsing ninja output.
// The zero value is ready to use.
type Warnings struct {
	mu   sync.Mutex
	msgs []string
}

// Add records a warning.
func (w *Warnings) Add(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Debugf("ninja output warning: %s", msg)
	w.mu.Lock()
	w.msgs = append(w.msgs, msg)
	w.mu.Unlock()
}

// List returns recorded warnings in the order they were added.
// It never returns nil.
func (w *Warnings) List() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string{}, w.msgs...)
}
