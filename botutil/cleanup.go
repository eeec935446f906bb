// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package botutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/botkit/execute"
)

var (
	// A leading dot got added at some point, so match both.
	chromeTempRE  = regexp.MustCompile(`^\.?(com\.google\.Chrome|org\.chromium)\.`)
	crashDumpRE   = regexp.MustCompile(`^.+\.dmp$`)
	desktopLinkRE = regexp.MustCompile(`^(Chromium|chrome) \(.+\)?\.lnk$`)
	anyRE         = regexp.MustCompile(`.+`)
)

const (
	nstempdirPath  = "/usr/local/libexec/nstempdir"
	snapshotLayout = "ChromiumSnapshot20060102150405"
)

// TempCleaner removes files leaked by crashed or killed tests.
type TempCleaner struct {
	// GOOS selects the platform specific locations.
	GOOS string
	// TempDir and ShmDir are checked on linux.
	TempDir string
	ShmDir  string
	// Home is used on mac, UserProfile on windows.
	Home        string
	UserProfile string
	// Executor runs nstempdir on mac.
	Executor execute.Executor
	Now      func() time.Time
}

// RemoveChromeTemporaryFiles removes leaked Chrome temporary files of
// the current user on this machine.
func RemoveChromeTemporaryFiles(ctx context.Context) error {
	home, _ := os.UserHomeDir()
	c := TempCleaner{
		GOOS:        runtime.GOOS,
		TempDir:     os.TempDir(),
		ShmDir:      "/dev/shm",
		Home:        home,
		UserProfile: os.Getenv("USERPROFILE"),
		Executor:    execute.Local{},
		Now:         time.Now,
	}
	return c.Run(ctx)
}

// Run removes leaked files. Failures to remove a file are logged only.
func (c TempCleaner) Run(ctx context.Context) error {
	switch c.GOOS {
	case "windows":
		desktop := filepath.Join(c.UserProfile, "Desktop")
		removeMatching(desktop, desktopLinkRE)
		c.removeOldSnapshots(desktop)
		removeMatching(filepath.Join(c.UserProfile, "AppData", "Roaming", "Microsoft", "Windows", "Recent", "CustomDestinations"), anyRE)
	case "linux":
		removeMatching(c.TempDir, chromeTempRE)
		removeMatching(c.ShmDir, chromeTempRE)
	case "darwin":
		if dir := c.nsTempDir(ctx); dir != "" {
			removeMatching(dir, chromeTempRE)
		}
		for _, app := range []string{"Chromium", "Google Chrome"} {
			removeMatching(filepath.Join(c.Home, "Library", "Application Support", app, "Crash Reports"), crashDumpRE)
		}
	default:
		return fmt.Errorf("platform %q is not currently supported", c.GOOS)
	}
	return nil
}

func (c TempCleaner) nsTempDir(ctx context.Context) string {
	if _, err := os.Stat(nstempdirPath); err != nil || c.Executor == nil {
		return ""
	}
	out, err := execute.Output(ctx, c.Executor, &execute.Cmd{Args: []string{nstempdirPath}})
	if err != nil {
		log.Warnf("failed to run %s: %v", nstempdirPath, err)
		return ""
	}
	return strings.TrimSpace(string(out))
}

// removeOldSnapshots removes ChromiumSnapshot files older than a day,
// left by tests that timed out.
func (c TempCleaner) removeOldSnapshots(desktop string) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	old := now().Add(-24 * time.Hour).Format(snapshotLayout)
	matches, err := filepath.Glob(filepath.Join(desktop, "ChromiumSnapshot*.png"))
	if err != nil {
		return
	}
	for _, fname := range matches {
		if filepath.Base(fname) >= old {
			continue
		}
		log.Infof("Removing old snapshot: %s", fname)
		err := os.Remove(fname)
		if err != nil {
			log.Warnf("failed to remove %s: %v", fname, err)
		}
	}
}

// removeMatching removes entries of dir whose name matches re.
func removeMatching(dir string, re *regexp.Regexp) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, ent := range ents {
		if !re.MatchString(ent.Name()) {
			continue
		}
		fullpath := filepath.Join(dir, ent.Name())
		log.Infof("Removing leaked temp item: %s", fullpath)
		err := os.RemoveAll(fullpath)
		if err != nil {
			log.Warnf("failed to remove %s: %v", fullpath, err)
		}
	}
}
