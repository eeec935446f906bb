// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjawrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/botkit/toolsupport/ninjautil"
)

const depsOutput = `a.o: #deps 4, deps mtime 1 (STALE)
    ../../base/a.cc
    ../../base/a.h
    gen/b.cc
    ../../build/bd.h

b.o: #deps 3, deps mtime 1 (VALID)
    ../../base/b.cc
    ../../base/b.h
    gen/b.cc

c.o: #deps 1, deps mtime 1 (STALE)
    ../../base/b.cc
`

const depsNotFoundOutput = `a.o: deps not found
b.o: #deps 3, deps mtime 1 (VALID)
    ../../base/b.cc
    ../../base/b.h
    gen/b.cc

`

const graphOutput = `digraph ninja {
rankdir="LR"
node [fontsize=10, shape=box, height=0.25]
edge [fontsize=10]
"node_id1" [label="gen/b.cc"]
"edge_id1" [label="edge_rule1", shape=ellipse]
"edge_id1" -> "node_id1"
"edge_id1" -> "node_id2"
"node_id3" -> "edge_id1" [arrowhead=none]
"node_id6" -> "edge_id1" [arrowhead=none style=dotted]
"node_id2" [label="flag.h"]
"node_id4" -> "node_id2" [label="edge_rule2"]
"node_id4" [label="../../flag.py"]
"node_id3" [label="b.o"]
"node_id5" -> "node_id3" [label="edge_rule3"]
"node_id5" [label="../../b.cc"]
"node_id6" [label="../../order.h"]
}`

// fakeTool returns outputs keyed by the ninja subtool name.
type fakeTool struct {
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
}

func (f *fakeTool) Output(ctx context.Context, args []string) ([]byte, error) {
	f.calls = append(f.calls, args)
	tool := ""
	for i, a := range args {
		if a == "-t" && i+1 < len(args) {
			tool = args[i+1]
		}
	}
	if err := f.errs[tool]; err != nil {
		return nil, err
	}
	return []byte(f.outputs[tool]), nil
}

func failure(rule string, nodes ...string) *ninjautil.Failure {
	return &ninjautil.Failure{
		OutputNodes:  nodes,
		Rule:         rule,
		Output:       "failed edge output line 1\n",
		Dependencies: []string{},
	}
}

func deps(info *Info) [][]string {
	var r [][]string
	for _, f := range info.Failures {
		r = append(r, f.Dependencies)
	}
	return r
}

func TestDetail(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name         string
		tool         *fakeTool
		buildDir     string
		failures     []*ninjautil.Failure
		want         [][]string
		wantCalls    [][]string
		wantWarnings []string
	}{
		{
			name:     "cxx",
			tool:     &fakeTool{outputs: map[string]string{"deps": depsOutput, "graph": graphOutput}},
			buildDir: "out/Release",
			failures: []*ninjautil.Failure{
				failure("CXX", "a.o", "b.o"),
				failure("CXX", "c.o"),
				failure("LINK", "d.o"),
			},
			want: [][]string{
				{"../../b.cc", "../../base/a.cc", "../../base/a.h", "../../base/b.cc", "../../base/b.h", "../../build/bd.h"},
				{"../../base/b.cc"},
				{},
			},
			wantCalls: [][]string{
				{"ninja", "-C", "out/Release", "-t", "deps", "a.o", "b.o", "c.o"},
				{"ninja", "-C", "out/Release", "-t", "graph", "gen/b.cc"},
			},
		},
		{
			name:     "empty-deps",
			tool:     &fakeTool{outputs: map[string]string{"deps": "", "graph": graphOutput}},
			buildDir: "out/Release",
			failures: []*ninjautil.Failure{
				failure("CXX", "a.o", "b.o"),
				failure("CXX", "c.o"),
			},
			want: [][]string{{}, {}},
			wantCalls: [][]string{
				{"ninja", "-C", "out/Release", "-t", "deps", "a.o", "b.o", "c.o"},
			},
		},
		{
			name: "non-cxx",
			tool: &fakeTool{},
			failures: []*ninjautil.Failure{
				failure("LINK", "a.exe"),
				failure("AR", "b.0"),
				failure("STAMP", "c.o"),
				failure("ACTION", "d.o"),
			},
			want: [][]string{{}, {}, {}, {}},
		},
		{
			name:     "mixed",
			tool:     &fakeTool{outputs: map[string]string{"deps": depsNotFoundOutput, "graph": graphOutput}},
			buildDir: "out/Release",
			failures: []*ninjautil.Failure{
				failure("CXX", "a.o"),
				failure("CXX", "b.o"),
				failure("ACTION", "c.o"),
			},
			want: [][]string{
				{},
				{"../../b.cc", "../../base/b.cc", "../../base/b.h"},
				{},
			},
			wantCalls: [][]string{
				{"ninja", "-C", "out/Release", "-t", "deps", "a.o", "b.o"},
				{"ninja", "-C", "out/Release", "-t", "graph", "gen/b.cc"},
			},
		},
		{
			name:     "tool-error",
			tool:     &fakeTool{errs: map[string]error{"deps": errors.New("exit=1")}},
			buildDir: "out/Release",
			failures: []*ninjautil.Failure{
				failure("CC", "x.o"),
			},
			want: [][]string{{}},
			wantCalls: [][]string{
				{"ninja", "-C", "out/Release", "-t", "deps", "x.o"},
			},
			wantWarnings: []string{`failed to run ninja tool ["ninja" "-C" "out/Release" "-t" "deps" "x.o"]: exit=1`},
		},
		{
			name: "no-build-dir",
			tool: &fakeTool{outputs: map[string]string{"deps": depsNotFoundOutput, "graph": graphOutput}},
			failures: []*ninjautil.Failure{
				failure("CXX", "b.o"),
			},
			want: [][]string{
				{"../../b.cc", "../../base/b.cc", "../../base/b.h"},
			},
			wantCalls: [][]string{
				{"ninja", "-t", "deps", "b.o"},
				{"ninja", "-t", "graph", "gen/b.cc"},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := &ninjautil.Warnings{}
			info := Detail(ctx, tc.tool, "ninja", tc.buildDir, tc.failures, w)
			if diff := cmp.Diff(tc.want, deps(info)); diff != "" {
				t.Errorf("dependencies diff -want +got:\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantCalls, tc.tool.calls); diff != "" {
				t.Errorf("tool calls diff -want +got:\n%s", diff)
			}
			got := w.List()
			if len(tc.wantWarnings) == 0 && len(got) != 0 {
				t.Errorf("warnings=%q; want none", got)
			}
			if len(tc.wantWarnings) > 0 {
				if diff := cmp.Diff(tc.wantWarnings, got); diff != "" {
					t.Errorf("warnings diff -want +got:\n%s", diff)
				}
			}
		})
	}
}

func TestDetail_NoFailures(t *testing.T) {
	info := Detail(context.Background(), &fakeTool{}, "ninja", "out", nil, &ninjautil.Warnings{})
	if info.Failures == nil || len(info.Failures) != 0 {
		t.Errorf("Detail(nil).Failures=%v; want empty non-nil", info.Failures)
	}
}

func TestBuildDir(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want string
	}{
		{[]string{"ninja", "-w", "dupbuild=err", "-C", "build/path", "target1"}, "build/path"},
		{[]string{"ninja", "target1"}, ""},
		{[]string{"ninja", "-C"}, ""},
	} {
		if got := BuildDir(tc.args); got != tc.want {
			t.Errorf("BuildDir(%s)=%q; want %q", strings.Join(tc.args, " "), got, tc.want)
		}
	}
}
