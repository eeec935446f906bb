// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjautil

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

var (
	graphNodeLabelRE = regexp.MustCompile(`^"([^"]+)" \[label="([^"]+)"\]$`)
	graphEdgeLabelRE = regexp.MustCompile(`^"([^"]+)" \[label="([^"]+)", shape=ellipse\]$`)
	// edge -> output node, for edges with multiple inputs or outputs.
	graphEdgeNodeRE = regexp.MustCompile(`^"([^"]+)" -> "([^"]+)"$`)
	// input node -> edge. style=dotted marks an order-only input.
	graphNodeEdgeRE = regexp.MustCompile(`^"([^"]+)" -> "([^"]+)" \[arrowhead=none(?: style=(dotted))?\]$`)
	// input node -> output node, for edges with a single input and output.
	graphNodeNodeRE = regexp.MustCompile(`^"([^"]+)" -> "([^"]+)" \[label="([^"]+)"\]$`)
)

// graphIgnoredLine reports whether line is DOT boilerplate printed by
// `ninja -t graph`.
func graphIgnoredLine(line string) bool {
	switch line {
	case "digraph ninja {",
		`rankdir="LR"`,
		"edge [fontsize=10]",
		"node [fontsize=10, shape=box, height=0.25]",
		"}":
		return true
	}
	return false
}

const orderOnlyAttr = "order_only"

type vertexKind int

const (
	fileVertex vertexKind = iota
	edgeVertex
)

// vertex is a file node or a build edge of the ninja build graph.
type vertex struct {
	id   string
	kind vertexKind
	// name is the file path for a file vertex, or the rule for an edge vertex.
	name string
}

func vertexHash(v *vertex) string { return v.id }

// Graph is a ninja build graph parsed from `ninja -t graph`.
// File nodes and build edges are both vertices; arcs go from input
// file to build edge, and from build edge to output file.
type Graph struct {
	g      graph.Graph[string, *vertex]
	byName map[string]string
	w      *Warnings
}

// ParseGraphOutput parses output of `ninja -t graph <targets>`.
func ParseGraphOutput(text string, w *Warnings) *Graph {
	gr := &Graph{
		g:      graph.New(vertexHash, graph.Directed()),
		byName: make(map[string]string),
		w:      w,
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := graphNodeLabelRE.FindStringSubmatch(line); m != nil {
			v := gr.vertex(m[1], fileVertex)
			v.name = m[2]
			gr.byName[m[2]] = m[1]
			continue
		}
		if m := graphEdgeLabelRE.FindStringSubmatch(line); m != nil {
			v := gr.vertex(m[1], edgeVertex)
			v.kind = edgeVertex
			v.name = m[2]
			continue
		}
		if m := graphEdgeNodeRE.FindStringSubmatch(line); m != nil {
			if !gr.isEdge(m[1]) {
				w.Add("Edge id does not exist in graph when recording edge output: %q", m[1])
				continue
			}
			gr.vertex(m[2], fileVertex)
			gr.arc(m[1], m[2], false)
			continue
		}
		if m := graphNodeEdgeRE.FindStringSubmatch(line); m != nil {
			if !gr.isEdge(m[2]) {
				w.Add("Edge id does not exist in graph when recording edge input: %q", m[2])
				continue
			}
			gr.vertex(m[1], fileVertex)
			gr.arc(m[1], m[2], m[3] == "dotted")
			continue
		}
		if m := graphNodeNodeRE.FindStringSubmatch(line); m != nil {
			edgeID := m[1] + " -> " + m[2]
			e := gr.vertex(edgeID, edgeVertex)
			e.name = m[3]
			gr.vertex(m[1], fileVertex)
			gr.vertex(m[2], fileVertex)
			gr.arc(m[1], edgeID, false)
			gr.arc(edgeID, m[2], false)
			continue
		}
		if !graphIgnoredLine(line) {
			w.Add("Unknown line when parsing graph output: %q", line)
		}
	}
	return gr
}

// vertex returns the vertex for id, adding it if it is not in the graph yet.
// A file vertex may be referenced before its label line.
func (gr *Graph) vertex(id string, kind vertexKind) *vertex {
	v, err := gr.g.Vertex(id)
	if err == nil {
		return v
	}
	v = &vertex{id: id, kind: kind}
	// only fails with ErrVertexAlreadyExists, checked above.
	_ = gr.g.AddVertex(v)
	return v
}

func (gr *Graph) isEdge(id string) bool {
	v, err := gr.g.Vertex(id)
	return err == nil && v.kind == edgeVertex
}

func (gr *Graph) arc(from, to string, orderOnly bool) {
	var opts []func(*graph.EdgeProperties)
	if orderOnly {
		opts = append(opts, graph.EdgeAttribute(orderOnlyAttr, "true"))
	}
	err := gr.g.AddEdge(from, to, opts...)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		gr.w.Add("failed to add %q -> %q: %v", from, to, err)
	}
}

// RootDeps returns, for each node name, the checked-in source files it
// is transitively built from. Order-only inputs are not followed.
// Names that are source files themselves, or have no checked-in
// sources, are not in the result.
func (gr *Graph) RootDeps(names []string) map[string][]string {
	rootDeps := make(map[string][]string)
	preds, err := gr.g.PredecessorMap()
	if err != nil {
		gr.w.Add("failed to get predecessors: %v", err)
		return rootDeps
	}
	// inEdge returns the edge producing the file id, or "".
	inEdge := func(id string) string {
		var edges []string
		for e := range preds[id] {
			edges = append(edges, e)
		}
		if len(edges) == 0 {
			return ""
		}
		sort.Strings(edges)
		return edges[0]
	}
	for _, name := range names {
		id, ok := gr.byName[name]
		if !ok {
			gr.w.Add("Node name does not exist in graph: %q", name)
			continue
		}
		start := inEdge(id)
		if start == "" {
			continue
		}
		seen := map[string]bool{start: true}
		roots := make(map[string]bool)
		stack := []string{start}
		for len(stack) > 0 {
			e := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for in, arc := range preds[e] {
				if arc.Properties.Attributes[orderOnlyAttr] != "" {
					continue
				}
				producer := inEdge(in)
				if producer == "" {
					v, err := gr.g.Vertex(in)
					if err != nil || v.name == "" || IsAutoGenerated(v.name) {
						// generated by gn rather than ninja.
						continue
					}
					roots[v.name] = true
					continue
				}
				if !seen[producer] {
					seen[producer] = true
					stack = append(stack, producer)
				}
			}
		}
		if len(roots) == 0 {
			continue
		}
		deps := make([]string, 0, len(roots))
		for r := range roots {
			deps = append(deps, r)
		}
		sort.Strings(deps)
		rootDeps[name] = deps
	}
	return rootDeps
}
