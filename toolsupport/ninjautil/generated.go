// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjautil

import "regexp"

var autoGeneratedRE = regexp.MustCompile(`^(?:gen/|obj/)`)

// IsAutoGenerated reports whether the build-dir relative path is
// produced by the build rather than checked in.
// TODO: check whether the file is in the build dir instead.
func IsAutoGenerated(path string) bool {
	return autoGeneratedRE.MatchString(path)
}
