// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjawrap

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/botkit/toolsupport/ninjautil"
)

// collectDepsRules are rules whose failures get dependencies attached.
// Other rules (LINK, ACTION, ...) would pull in too many files.
var collectDepsRules = map[string]bool{
	"CXX": true,
	"CC":  true,
}

// Info is the detailed failure information written to -ninja_info_output.
type Info struct {
	Failures []*ninjautil.Failure `json:"failures"`
	Warnings []string             `json:"warnings"`
}

// Detail attaches source dependencies to compile failures.
// It queries `ninja -t deps` for the failed outputs and, for generated
// deps, `ninja -t graph` to find the sources they are generated from.
// Problems are recorded in w, not returned.
func Detail(ctx context.Context, tool Tool, ninjaPath, buildDir string, failures []*ninjautil.Failure, w *ninjautil.Warnings) *Info {
	info := &Info{Failures: failures}
	if info.Failures == nil {
		info.Failures = []*ninjautil.Failure{}
	}
	nodes := uniqueSorted(func(yield func(string)) {
		for _, f := range failures {
			if !collectDepsRules[f.Rule] {
				continue
			}
			for _, n := range f.OutputNodes {
				yield(n)
			}
		}
	})
	deps := map[string]*ninjautil.DepsInfo{}
	rootDeps := map[string][]string{}
	if len(nodes) > 0 {
		log.Infof("collect deps of %d failed nodes", len(nodes))
		out := runTool(ctx, tool, w, ninjaPath, buildDir, "deps", nodes)
		deps = ninjautil.ParseDepsOutput(string(out), w)
	}
	generated := uniqueSorted(func(yield func(string)) {
		for _, d := range deps {
			for _, g := range d.AutoGeneratedDeps {
				yield(g)
			}
		}
	})
	if len(generated) > 0 {
		log.Infof("collect sources of %d generated deps", len(generated))
		out := runTool(ctx, tool, w, ninjaPath, buildDir, "graph", generated)
		g := ninjautil.ParseGraphOutput(string(out), w)
		rootDeps = g.RootDeps(generated)
	}

	for _, f := range failures {
		f.Dependencies = uniqueSorted(func(yield func(string)) {
			for _, d := range f.Dependencies {
				yield(d)
			}
			for _, n := range f.OutputNodes {
				d, ok := deps[n]
				if !ok {
					continue
				}
				for _, s := range d.SourceDeps {
					yield(s)
				}
				for _, g := range d.AutoGeneratedDeps {
					for _, s := range rootDeps[g] {
						yield(s)
					}
				}
			}
		})
	}
	return info
}

func runTool(ctx context.Context, tool Tool, w *ninjautil.Warnings, ninjaPath, buildDir, name string, targets []string) []byte {
	args := []string{ninjaPath}
	if buildDir != "" {
		args = append(args, "-C", buildDir)
	}
	args = append(args, "-t", name)
	args = append(args, targets...)
	out, err := tool.Output(ctx, args)
	if err != nil {
		w.Add("failed to run ninja tool %q: %v", args, err)
		return nil
	}
	return out
}

// uniqueSorted returns the sorted set of strings produced by seq.
// It never returns nil.
func uniqueSorted(seq func(yield func(string))) []string {
	seen := make(map[string]bool)
	r := []string{}
	seq(func(s string) {
		if seen[s] {
			return
		}
		seen[s] = true
		r = append(r, s)
	})
	sort.Strings(r)
	return r
}
