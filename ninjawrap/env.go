// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjawrap

import (
	"os"
	"path/filepath"
	"strings"

	"go.chromium.org/luci/common/system/environ"
)

// PruneVirtualEnv removes python virtualenv settings from env, so that
// python invoked by build actions uses the default python on PATH
// rather than the one of the virtualenv that started the wrapper.
func PruneVirtualEnv(env environ.Env) environ.Env {
	env = env.Clone()
	env.Remove("VIRTUAL_ENV")
	env.Remove("PYTHONNOUSERSITE")

	path, ok := env.Lookup("PATH")
	if !ok {
		return env
	}
	var kept []string
	for _, p := range filepath.SplitList(path) {
		// activate_this.py is installed by virtualenv.
		if fi, err := os.Stat(filepath.Join(p, "activate_this.py")); err == nil && fi.Mode().IsRegular() {
			continue
		}
		kept = append(kept, p)
	}
	env.Set("PATH", strings.Join(kept, string(os.PathListSeparator)))
	return env
}
