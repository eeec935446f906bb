// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gsutil copies files to Google Storage.
package gsutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// DefaultProviderPrefix is the prefix of custom metadata for gsutil.
const DefaultProviderPrefix = "x-goog-meta"

// headers Google Storage supports without provider prefix.
var standardHeaders = map[string]bool{
	"Cache-Control":       true,
	"Content-Disposition": true,
	"Content-Encoding":    true,
	"Content-Language":    true,
	"Content-MD5":         true,
	"Content-Type":        true,
}

// MetadataField returns the header name to set metadata name.
// Names already carrying a provider prefix and standard headers are
// returned as is.
func MetadataField(name, providerPrefix string) string {
	if strings.HasPrefix(strings.ToLower(name), "x-") {
		return name
	}
	if standardHeaders[name] {
		return name
	}
	if providerPrefix == "" {
		providerPrefix = DefaultProviderPrefix
	}
	return providerPrefix + "-" + name
}

// Options are options of a copy.
type Options struct {
	// MimeType sets Content-Type.
	MimeType string
	// ACL is a canned ACL, e.g. "public-read".
	ACL          string
	CacheControl string
	// Metadata is set as headers of the object.
	// An empty value sets the bare field name.
	Metadata map[string]string
	// Quiet adds -q.
	Quiet bool
	// Compress uploads with gzip content-encoding.
	Compress bool
}

// headers returns metadata with MimeType and CacheControl, sorted by name.
func (o Options) headers() [][2]string {
	m := make(map[string]string, len(o.Metadata)+2)
	for k, v := range o.Metadata {
		m[k] = v
	}
	if o.MimeType != "" {
		m["Content-Type"] = o.MimeType
	}
	if o.CacheControl != "" {
		m["Cache-Control"] = o.CacheControl
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	hdrs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		hdrs = append(hdrs, [2]string{k, m[k]})
	}
	return hdrs
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "gs://") || strings.HasPrefix(s, "file://")
}

// fileURL adds file:// to s unless it is already a URL.
func fileURL(s string) string {
	if isURL(s) {
		return s
	}
	return "file://" + s
}

// Command returns the gsutil command line to copy src to dst.
func Command(prefix []string, src, dst string, opts Options) []string {
	cmd := append([]string(nil), prefix...)
	if opts.Quiet {
		cmd = append(cmd, "-q")
	}
	for _, h := range opts.headers() {
		field := MetadataField(h[0], "")
		if h[1] == "" {
			cmd = append(cmd, "-h", field)
			continue
		}
		cmd = append(cmd, "-h", field+":"+h[1])
	}
	cmd = append(cmd, "cp")
	if opts.ACL != "" {
		cmd = append(cmd, "-a", opts.ACL)
	}
	if opts.Compress {
		cmd = append(cmd, "-Z")
	}
	return append(cmd, fileURL(src), fileURL(dst))
}

// Prefix returns the command to run gsutil.
// If gsutilPyPath is set, gsutil.py is run by python3. Otherwise, gsutil
// next to the running executable is used.
func Prefix(gsutilPyPath string) []string {
	if gsutilPyPath != "" {
		return []string{"python3", gsutilPyPath, "--"}
	}
	gsutil := "gsutil"
	if runtime.GOOS == "windows" {
		gsutil += ".bat"
	}
	exe, err := os.Executable()
	if err != nil {
		return []string{gsutil}
	}
	return []string{filepath.Join(filepath.Dir(exe), gsutil)}
}

// CopyFileDest returns the destination URL to copy filename to gsBase.
// subdir ".." means the parent of gsBase. If destFilename is empty,
// the base name of filename is used.
func CopyFileDest(filename, gsBase, subdir, destFilename string) string {
	dest := gsBase
	switch subdir {
	case "":
	case "..":
		// path.Dir would break "gs://".
		if i := strings.LastIndex(gsBase, "/"); i >= 0 {
			dest = gsBase[:i]
		}
	default:
		dest = gsBase + "/" + subdir
	}
	if destFilename == "" {
		destFilename = filepath.Base(filename)
	}
	return dest + "/" + destFilename
}

// Copier copies a file to Google Storage.
type Copier interface {
	Copy(ctx context.Context, src, dst string, opts Options) error
}
