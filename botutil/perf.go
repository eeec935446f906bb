// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package botutil

import "fmt"

// PerfDashboardRevisions returns the revision fields sent to the perf
// dashboard along with results. Empty and "undefined" values are omitted.
func PerfDashboardRevisions(props map[string]any, mainRevision, pointID string) map[string]string {
	versions := map[string]string{
		"rev":          mainRevision,
		"webrtc_git":   propString(props, "got_webrtc_revision"),
		"v8_rev":       propString(props, "got_v8_revision"),
		"ver":          propString(props, "version"),
		"git_revision": propString(props, "git_revision"),
		"point_id":     pointID,
	}
	for k, v := range versions {
		if v == "" || v == "undefined" {
			delete(versions, k)
		}
	}
	return versions
}

func propString(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
