// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package version

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseCIPDGitRepoRevision(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/p/infra/tools/botkit/+/abc":
			fmt.Fprintln(w, "<div>")
			fmt.Fprintln(w, "  git_repository:https://chromium.googlesource.com/infra/infra")
			fmt.Fprintln(w, "  git_revision:0123456789abcdef")
			fmt.Fprintln(w, "</div>")
		case "/p/infra/tools/botkit/+/notag":
			fmt.Fprintln(w, "<div></div>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()
	ctx := context.Background()

	repo, rev, err := parseCIPDGitRepoRevision(ctx, ts.URL+"/p/infra/tools/botkit/+/abc")
	if err != nil || repo != "https://chromium.googlesource.com/infra/infra" || rev != "0123456789abcdef" {
		t.Errorf("parseCIPDGitRepoRevision=%q, %q, %v; want infra repo, 0123456789abcdef, nil", repo, rev, err)
	}
	for _, p := range []string{"/p/infra/tools/botkit/+/notag", "/missing"} {
		_, _, err := parseCIPDGitRepoRevision(ctx, ts.URL+p)
		if err == nil {
			t.Errorf("parseCIPDGitRepoRevision(%q)=_, _, nil; want error", p)
		}
	}
}
