// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjawrap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.chromium.org/luci/common/system/environ"
)

func TestPruneVirtualEnv(t *testing.T) {
	dir := t.TempDir()
	venvBin := filepath.Join(dir, "venv", "bin")
	sysBin := filepath.Join(dir, "usr", "bin")
	for _, d := range []string{venvBin, sysBin} {
		err := os.MkdirAll(d, 0755)
		if err != nil {
			t.Fatal(err)
		}
	}
	err := os.WriteFile(filepath.Join(venvBin, "activate_this.py"), nil, 0644)
	if err != nil {
		t.Fatal(err)
	}
	path := strings.Join([]string{venvBin, sysBin}, string(os.PathListSeparator))
	env := environ.New([]string{
		"VIRTUAL_ENV=" + filepath.Join(dir, "venv"),
		"PYTHONNOUSERSITE=1",
		"PATH=" + path,
		"HOME=/home/chrome-bot",
	})

	got := PruneVirtualEnv(env)

	if v, ok := got.Lookup("VIRTUAL_ENV"); ok {
		t.Errorf("VIRTUAL_ENV=%q; want unset", v)
	}
	if v, ok := got.Lookup("PYTHONNOUSERSITE"); ok {
		t.Errorf("PYTHONNOUSERSITE=%q; want unset", v)
	}
	if v := got.Get("PATH"); v != sysBin {
		t.Errorf("PATH=%q; want %q", v, sysBin)
	}
	if v := got.Get("HOME"); v != "/home/chrome-bot" {
		t.Errorf("HOME=%q; want /home/chrome-bot", v)
	}
	// the input env is not modified.
	if v := env.Get("PATH"); v != path {
		t.Errorf("input PATH=%q; want %q", v, path)
	}
}
