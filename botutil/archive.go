// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package botutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ZipFileNames returns the base name and version suffix of a full build
// archive. Try builders use the build number instead of the revision,
// or the parent's build number when extracting.
func ZipFileNames(group, buildNumber, parentBuildNumber, revision string, extract, useTryBuildNumber bool) (base, suffix string, err error) {
	base = "full-build-" + PlatformName()
	if !strings.Contains(group, "try") || !useTryBuildNumber {
		return base, "_" + revision, nil
	}
	if !extract {
		return base, "_" + buildNumber, nil
	}
	if parentBuildNumber == "" {
		return "", "", errors.New("missing parent build number")
	}
	return base, "_" + parentBuildNumber, nil
}

// SlaveBaseDir returns the bot's base directory, which is the parent
// of the shallowest "build" directory in dir. The search stops at a
// "slave" directory.
func SlaveBaseDir(dir string) (string, error) {
	var result string
	cur := filepath.Clean(dir)
	for {
		parent, leaf := filepath.Dir(cur), filepath.Base(cur)
		if leaf == "build" {
			result = parent
		}
		if leaf == "slave" || parent == cur {
			break
		}
		cur = parent
	}
	if result == "" {
		return "", fmt.Errorf("unable to find slave base dir above %s: %w", dir, ErrPathNotFound)
	}
	return result, nil
}

// SlaveBuildName returns the bot's build name, e.g. "chrome-release".
func SlaveBuildName(dir string) (string, error) {
	base, err := SlaveBaseDir(dir)
	if err != nil {
		return "", err
	}
	return filepath.Base(base), nil
}

// StagingDir creates the chrome_staging dir in the bot's base dir and
// returns its path.
func StagingDir(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	base, err := SlaveBaseDir(abs)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "chrome_staging")
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}
	return dir, nil
}
