// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjautil

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	depsHeaderRE   = regexp.MustCompile(`^(.+): #deps (\d+), deps mtime \d+ \((\w+)\)$`)
	depsNotFoundRE = regexp.MustCompile(`^(.+): deps not found$`)
)

// DepsInfo is the deps of an output recorded in ninja's deps log.
type DepsInfo struct {
	// SourceDeps are checked-in files.
	SourceDeps []string
	// AutoGeneratedDeps are files generated by the build.
	AutoGeneratedDeps []string
}

// ParseDepsOutput parses output of `ninja -t deps <targets>`.
// It returns DepsInfo keyed by target.
//
//	a.o: #deps 2, deps mtime 1 (VALID)
//	    ../../a.cc
//	    gen/a.h
//
//	b.o: deps not found
func ParseDepsOutput(text string, w *Warnings) map[string]*DepsInfo {
	deps := make(map[string]*DepsInfo)
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		// trailing newline.
		lines = lines[:n-1]
	}
	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		i++
		if line == "" {
			continue
		}
		if m := depsHeaderRE.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				w.Add("Bad deps count in %q: %v", line, err)
				continue
			}
			if n > len(lines)-i {
				w.Add("Expect %d deps, but %d line(s) left.", n, len(lines)-i)
				n = len(lines) - i
			}
			end := i + n
			info := &DepsInfo{}
			for _, dep := range lines[i:end] {
				dep = strings.TrimSpace(dep)
				if dep == "" {
					w.Add("Unexpected empty deps line")
					continue
				}
				if IsAutoGenerated(dep) {
					info.AutoGeneratedDeps = append(info.AutoGeneratedDeps, dep)
					continue
				}
				info.SourceDeps = append(info.SourceDeps, dep)
			}
			deps[m[1]] = info
			i = end
			continue
		}
		if m := depsNotFoundRE.FindStringSubmatch(line); m != nil {
			deps[m[1]] = &DepsInfo{}
			continue
		}
		w.Add("Unknown line when parsing deps output: %q", line)
	}
	return deps
}
