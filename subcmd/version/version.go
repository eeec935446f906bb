// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package version provides version subcommand.
package version

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/cipd/version"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/hardcoded/chromeinfra"
)

// Cmd returns the Command for the `version` subcommand provided by this package.
func Cmd(ver string) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "version",
		ShortDesc: "prints the executable version",
		LongDesc:  "Prints the executable version and the CIPD package the executable was installed from (if it was installed via CIPD).",
		CommandRun: func() subcommands.CommandRun {
			r := &versionRun{version: ver}
			r.init()
			return r
		},
	}
}

type versionRun struct {
	subcommands.CommandRunBase
	version string
	cipdURL string
}

func (c *versionRun) init() {
	c.Flags.StringVar(&c.cipdURL, "cipd_url", "", "show version info for this cipd URL.")
}

func (c *versionRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return 1
	}
	w := a.GetOut()
	fmt.Fprintln(w, c.version)
	cipdURL := c.cipdURL
	if cipdURL == "" {
		switch ver, err := version.GetStartupVersion(); {
		case err != nil:
			// Note: this is some sort of catastrophic error. If the binary is not
			// installed via CIPD, err == nil && ver.InstanceID == "".
			fmt.Fprintf(os.Stderr, "cannot determine CIPD package version: %s\n", err)
			return 1
		case ver.InstanceID == "":
			printBuildInfo(w)
			return 0
		default:
			fmt.Fprintln(w)
			fmt.Fprintf(w, "CIPD package name: %s\n", ver.PackageName)
			fmt.Fprintf(w, "CIPD instance ID:  %s\n", ver.InstanceID)
			cipdURL = fmt.Sprintf("%s/p/%s/+/%s", chromeinfra.CIPDServiceURL, ver.PackageName, ver.InstanceID)
		}
	}
	fmt.Fprintf(w, "CIPD URL: %s\n", cipdURL)

	repo, rev, err := parseCIPDGitRepoRevision(ctx, cipdURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get git_repository and git_revision in %s: %v\n", cipdURL, err)
		return 1
	}
	fmt.Fprintf(w, "%s/+/%s\n", repo, rev)
	return 0
}

func printBuildInfo(w io.Writer) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if buildInfo.GoVersion != "" {
		fmt.Fprintf(w, "go\t%s\n", buildInfo.GoVersion)
	}
	for _, s := range buildInfo.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			fmt.Fprintf(w, "build\t%s=%s\n", s.Key, s.Value)
		}
	}
}

func parseCIPDGitRepoRevision(ctx context.Context, cipdURL string) (repo, rev string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cipdURL, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", "", fmt.Errorf("http=%d %s", resp.StatusCode, resp.Status)
	}
	s := bufio.NewScanner(resp.Body)
	var repository, revision string
	for s.Scan() {
		line := s.Bytes()
		if bytes.Contains(line, []byte("git_repository:")) {
			repository = string(bytes.TrimPrefix(bytes.TrimSpace(line), []byte("git_repository:")))
		}
		if bytes.Contains(line, []byte("git_revision:")) {
			revision = string(bytes.TrimPrefix(bytes.TrimSpace(line), []byte("git_revision:")))
		}
	}
	err = s.Err()
	if err != nil {
		return "", "", err
	}
	if repository == "" || revision == "" {
		return "", "", fmt.Errorf("git_repository, git_revision not found in %s", cipdURL)
	}
	return repository, revision, nil
}
