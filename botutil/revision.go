// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package botutil

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/infra/build/botkit/execute"
)

var (
	// git comment line containing svn revision.
	gitSVNIDRE = regexp.MustCompile(`^git-svn-id: .*@([0-9]+) .*$`)
	// commit position of the default branch.
	gitCrPosRE = regexp.MustCompile(`^Cr-Commit-Position: refs/heads/(?:master|main)@\{#(\d+)\}$`)

	commitPosPropRE = regexp.MustCompile(`\{#(\d+)\}`)
)

// maxConcurrentGit limits git processes run by BuildRevisions.
const maxConcurrentGit = 4

// Revisions finds revisions of checkouts by running git and svn.
type Revisions struct {
	// Executor defaults to execute.Local.
	Executor execute.Executor
}

func (r Revisions) output(ctx context.Context, dir string, args ...string) (string, error) {
	e := r.Executor
	if e == nil {
		e = execute.Local{}
	}
	out, err := execute.Output(ctx, e, &execute.Cmd{Args: args, Dir: dir})
	return string(out), err
}

// GitHash returns the commit hash of HEAD in dir.
func (r Revisions) GitHash(ctx context.Context, dir string) (string, error) {
	out, err := r.output(ctx, dir, gitExe(), "rev-parse", "HEAD")
	if err != nil || strings.Contains(out, "fatal: Not a git repository") {
		return "", fmt.Errorf("%s: %w", dir, ErrNotGitWorkingCopy)
	}
	return strings.TrimSpace(out), nil
}

// HashOrRevision returns the git hash of dir.
func (r Revisions) HashOrRevision(ctx context.Context, dir string) (string, error) {
	h, err := r.GitHash(ctx, dir)
	if err == nil {
		return h, nil
	}
	if errors.Is(err, ErrNotGitWorkingCopy) {
		return "", fmt.Errorf("%s: %w", dir, ErrNotAnyWorkingCopy)
	}
	return "", err
}

// BuildRevision returns the build revision of srcDir, or of revisionDir
// relative to srcDir if revisionDir is not empty.
func (r Revisions) BuildRevision(ctx context.Context, srcDir, revisionDir string) (string, error) {
	if revisionDir == "" {
		return r.HashOrRevision(ctx, srcDir)
	}
	abs, err := filepath.Abs(srcDir)
	if err != nil {
		return "", err
	}
	return r.HashOrRevision(ctx, filepath.Join(abs, revisionDir))
}

// BuildRevisions returns build revisions of dirs, in the same order.
func (r Revisions) BuildRevisions(ctx context.Context, dirs []string) ([]string, error) {
	revs := make([]string, len(dirs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentGit)
	for i, dir := range dirs {
		eg.Go(func() error {
			rev, err := r.HashOrRevision(ctx, dir)
			if err != nil {
				return err
			}
			revs[i] = rev
			return nil
		})
	}
	err := eg.Wait()
	if err != nil {
		return nil, err
	}
	return revs, nil
}

// Revision returns the svn revision, git commit position or git hash
// of dir. It returns "" if none could be found.
func (r Revisions) Revision(ctx context.Context, dir string) string {
	_, err := os.Stat(filepath.Join(dir, ".svn"))
	if err != nil {
		if !r.isGitDir(ctx, dir) {
			return ""
		}
		if pos := r.gitCommitPosition(ctx, dir); pos != "" {
			return pos
		}
		out, err := r.output(ctx, dir, gitExe(), "rev-parse", "HEAD")
		if err != nil {
			log.Warnf("git rev-parse HEAD in %s: %v", dir, err)
		}
		return strings.TrimSpace(out)
	}
	out, err := r.output(ctx, dir, "svn", "info", "--xml")
	if err != nil {
		log.Warnf("svn info in %s: %v", dir, err)
	}
	return svnInfoRevision([]byte(out))
}

func (r Revisions) isGitDir(ctx context.Context, dir string) bool {
	_, err := r.output(ctx, dir, gitExe(), "rev-parse", "--git-dir")
	return err == nil
}

func (r Revisions) gitCommitPosition(ctx context.Context, dir string) string {
	out, err := r.output(ctx, dir, gitExe(), "log", "-n", "1", "--pretty=format:%B", "HEAD")
	if err != nil {
		return ""
	}
	return CommitPositionFromLog(out)
}

type svnInfo struct {
	Entries []struct {
		Revision string `xml:"revision,attr"`
	} `xml:"entry"`
}

func svnInfoRevision(buf []byte) string {
	var info svnInfo
	err := xml.Unmarshal(buf, &info)
	if err != nil || len(info.Entries) == 0 {
		return ""
	}
	return info.Entries[0].Revision
}

// CommitPositionFromLog returns the commit position, or else the svn
// revision, found in a git commit message. Lines are searched from the
// bottom, since a revert embeds the message of the reverted commit.
func CommitPositionFromLog(msg string) string {
	lines := strings.Split(msg, "\n")
	for _, re := range []*regexp.Regexp{gitCrPosRE, gitSVNIDRE} {
		for i := len(lines) - 1; i >= 0; i-- {
			m := re.FindStringSubmatch(strings.TrimSpace(lines[i]))
			if m != nil {
				return m[1]
			}
		}
	}
	return ""
}

// CommitPosFromProperties returns the commit position in the
// got_revision_cp build property.
func CommitPosFromProperties(props map[string]any) (int, bool) {
	v, ok := props["got_revision_cp"].(string)
	if !ok {
		return 0, false
	}
	m := commitPosPropRE.FindStringSubmatch(v)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// MainRevision returns the revision used as x-value in the perf
// dashboard: revision if it is numeric, else the commit position build
// property, else the revision of the parent of buildDir.
func (r Revisions) MainRevision(ctx context.Context, props map[string]any, buildDir, revision string) (string, error) {
	if revision != "" && isDigits(revision) {
		return revision, nil
	}
	if pos, ok := CommitPosFromProperties(props); ok {
		return strconv.Itoa(pos), nil
	}
	abs, err := filepath.Abs(buildDir)
	if err != nil {
		return "", err
	}
	return r.Revision(ctx, filepath.Dir(abs)), nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
