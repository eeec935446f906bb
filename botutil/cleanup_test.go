// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package botutil

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func setupFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		fname := filepath.Join(dir, filepath.FromSlash(name))
		err := os.MkdirAll(filepath.Dir(fname), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(fname, nil, 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, ent := range ents {
		names = append(names, ent.Name())
	}
	sort.Strings(names)
	return names
}

func TestTempCleaner_Linux(t *testing.T) {
	tmp := t.TempDir()
	shm := t.TempDir()
	setupFiles(t, tmp,
		"com.google.Chrome.abc",
		".org.chromium.Chromium.xyz/SingletonLock",
		"org.chromiumish",
		"go-build123",
	)
	setupFiles(t, shm, ".com.google.Chrome.shm", "pulse-shm-1")

	c := TempCleaner{GOOS: "linux", TempDir: tmp, ShmDir: shm}
	err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run()=%v; want nil error", err)
	}
	if diff := cmp.Diff([]string{"go-build123", "org.chromiumish"}, listFiles(t, tmp)); diff != "" {
		t.Errorf("temp dir diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"pulse-shm-1"}, listFiles(t, shm)); diff != "" {
		t.Errorf("shm dir diff -want +got:\n%s", diff)
	}
}

func TestTempCleaner_Mac(t *testing.T) {
	home := t.TempDir()
	reports := filepath.Join("Library", "Application Support", "Google Chrome", "Crash Reports")
	setupFiles(t, home,
		filepath.ToSlash(filepath.Join(reports, "1.dmp")),
		filepath.ToSlash(filepath.Join(reports, "settings.dat")),
	)

	c := TempCleaner{GOOS: "darwin", Home: home}
	err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run()=%v; want nil error", err)
	}
	if diff := cmp.Diff([]string{"settings.dat"}, listFiles(t, filepath.Join(home, reports))); diff != "" {
		t.Errorf("crash reports diff -want +got:\n%s", diff)
	}
}

func TestTempCleaner_Windows(t *testing.T) {
	profile := t.TempDir()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	setupFiles(t, profile,
		"Desktop/Chromium (1).lnk",
		"Desktop/chrome ().lnk",
		"Desktop/notes.txt",
		"Desktop/ChromiumSnapshot20250301000000.png",
		"Desktop/ChromiumSnapshot20250310110000.png",
		"AppData/Roaming/Microsoft/Windows/Recent/CustomDestinations/a.customDestinations-ms",
	)

	c := TempCleaner{GOOS: "windows", UserProfile: profile, Now: func() time.Time { return now }}
	err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run()=%v; want nil error", err)
	}
	want := []string{"ChromiumSnapshot20250310110000.png", "notes.txt"}
	if diff := cmp.Diff(want, listFiles(t, filepath.Join(profile, "Desktop"))); diff != "" {
		t.Errorf("desktop diff -want +got:\n%s", diff)
	}
	jumpList := filepath.Join(profile, "AppData", "Roaming", "Microsoft", "Windows", "Recent", "CustomDestinations")
	if got := listFiles(t, jumpList); len(got) != 0 {
		t.Errorf("jump list files=%q; want none", got)
	}
}

func TestTempCleaner_Unsupported(t *testing.T) {
	c := TempCleaner{GOOS: "plan9"}
	err := c.Run(context.Background())
	if err == nil {
		t.Errorf("Run()=nil; want error")
	}
}
