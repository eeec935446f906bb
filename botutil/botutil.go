// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package botutil provides helpers shared by bot scripts: revision
// discovery, archive naming, bot directories and temp file cleanup.
package botutil

import (
	"errors"
	"runtime"
)

// Exit codes understood by the build master to distinguish errors from
// warnings.
const (
	ErrorExitCode   = 1
	WarningExitCode = 88
)

var (
	// ErrNotGitWorkingCopy is returned when a directory is not in a git checkout.
	ErrNotGitWorkingCopy = errors.New("not a git working copy")

	// ErrNotAnyWorkingCopy is returned when no revision could be found for a directory.
	ErrNotAnyWorkingCopy = errors.New("not any working copy")

	// ErrPathNotFound is returned when an expected bot directory is missing.
	ErrPathNotFound = errors.New("path not found")
)

// gitExe returns git executable name.
func gitExe() string {
	if runtime.GOOS == "windows" {
		return "git.bat"
	}
	return "git"
}

// PlatformName returns the platform name used in archive names.
func PlatformName() string {
	switch runtime.GOOS {
	case "windows":
		return "win32"
	case "darwin":
		return "mac"
	default:
		return runtime.GOOS
	}
}
