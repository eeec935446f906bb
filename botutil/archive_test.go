// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package botutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestZipFileNames(t *testing.T) {
	base := "full-build-" + PlatformName()
	for _, tc := range []struct {
		name              string
		group             string
		parentBuildNumber string
		extract           bool
		useTryBuildNumber bool
		wantSuffix        string
		wantErr           bool
	}{
		{name: "ci", group: "chromium.linux", useTryBuildNumber: true, wantSuffix: "_123abc"},
		{name: "try", group: "tryserver.chromium.linux", useTryBuildNumber: true, wantSuffix: "_42"},
		{name: "try-extract", group: "tryserver.chromium.linux", parentBuildNumber: "41", extract: true, useTryBuildNumber: true, wantSuffix: "_41"},
		{name: "try-extract-no-parent", group: "tryserver.chromium.linux", extract: true, useTryBuildNumber: true, wantErr: true},
		{name: "try-revision", group: "tryserver.chromium.linux", extract: true, wantSuffix: "_123abc"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			gotBase, gotSuffix, err := ZipFileNames(tc.group, "42", tc.parentBuildNumber, "123abc", tc.extract, tc.useTryBuildNumber)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ZipFileNames(...)=%q, %q, nil; want error", gotBase, gotSuffix)
				}
				return
			}
			if err != nil || gotBase != base || gotSuffix != tc.wantSuffix {
				t.Errorf("ZipFileNames(...)=%q, %q, %v; want %q, %q, nil", gotBase, gotSuffix, err, base, tc.wantSuffix)
			}
		})
	}
}

func TestSlaveBaseDir(t *testing.T) {
	for _, tc := range []struct {
		dir     string
		want    string
		wantErr error
	}{
		{
			dir:  filepath.FromSlash("/b/chrome/chrome-release/build/src/out"),
			want: filepath.FromSlash("/b/chrome/chrome-release"),
		},
		{
			dir:  filepath.FromSlash("/b/build/slave/linux/build/src"),
			want: filepath.FromSlash("/b/build/slave/linux"),
		},
		{
			dir:  filepath.FromSlash("/b/build/x/build/src"),
			want: filepath.FromSlash("/b"),
		},
		{
			dir:     filepath.FromSlash("/b/build/slave/linux/src"),
			wantErr: ErrPathNotFound,
		},
		{
			dir:     filepath.FromSlash("/home/user/src"),
			wantErr: ErrPathNotFound,
		},
	} {
		got, err := SlaveBaseDir(tc.dir)
		if !errors.Is(err, tc.wantErr) || got != tc.want {
			t.Errorf("SlaveBaseDir(%q)=%q, %v; want %q, %v", tc.dir, got, err, tc.want, tc.wantErr)
		}
	}

	name, err := SlaveBuildName(filepath.FromSlash("/b/chrome/chrome-release/build/src"))
	if err != nil || name != "chrome-release" {
		t.Errorf("SlaveBuildName(...)=%q, %v; want %q, nil", name, err, "chrome-release")
	}
}

func TestStagingDir(t *testing.T) {
	top := t.TempDir()
	start := filepath.Join(top, "bot", "build", "src")
	err := os.MkdirAll(start, 0755)
	if err != nil {
		t.Fatal(err)
	}
	got, err := StagingDir(start)
	if err != nil {
		t.Fatalf("StagingDir(%q)=_, %v; want nil error", start, err)
	}
	want := filepath.Join(top, "bot", "chrome_staging")
	if got != want {
		t.Errorf("StagingDir(%q)=%q; want %q", start, got, want)
	}
	fi, err := os.Stat(got)
	if err != nil || !fi.IsDir() {
		t.Errorf("stat(%q)=%v, %v; want directory", got, fi, err)
	}
}

func TestPerfDashboardRevisions(t *testing.T) {
	props := map[string]any{
		"got_webrtc_revision": "undefined",
		"got_v8_revision":     "v8hash",
		"version":             "",
		"git_revision":        "abcdef",
	}
	got := PerfDashboardRevisions(props, "1234", "")
	want := map[string]string{
		"rev":          "1234",
		"v8_rev":       "v8hash",
		"git_revision": "abcdef",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PerfDashboardRevisions(...) diff -want +got:\n%s", diff)
	}

	got = PerfDashboardRevisions(nil, "", "5")
	want = map[string]string{"point_id": "5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PerfDashboardRevisions(nil, ...) diff -want +got:\n%s", diff)
	}
}
