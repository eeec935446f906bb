// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ninjautil

import (
	"regexp"
	"strings"
)

var (
	ruleLineRE    = regexp.MustCompile(`^\[\d+/\d+\] (\S+)`)
	failedLineRE  = regexp.MustCompile(`^FAILED: (.*)$`)
	buildStopLine = regexp.MustCompile(`^ninja: build stopped:.*`)
)

// Failure is a failed build edge found in ninja's stdout.
type Failure struct {
	// OutputNodes are the outputs listed on the FAILED: line.
	OutputNodes []string `json:"output_nodes"`
	// Rule is the rule name printed on the progress line before FAILED:.
	Rule string `json:"rule"`
	// Output is what the failed edge printed.
	Output string `json:"output"`
	// Dependencies are source files the outputs depend on.
	// Only filled for compile rules.
	Dependencies []string `json:"dependencies"`
}

// OutputParser parses ninja's build stdout line by line.
type OutputParser struct {
	w *Warnings

	failures   []*Failure
	lastLine   string
	collecting *Failure
	out        strings.Builder
}

// NewOutputParser creates a parser reporting to w.
func NewOutputParser(w *Warnings) *OutputParser {
	return &OutputParser{w: w}
}

// Parse consumes one line of ninja stdout.
func (p *OutputParser) Parse(line string) {
	line = strings.TrimSpace(line)
	defer func() { p.lastLine = line }()

	if p.collecting != nil {
		if !ruleLineRE.MatchString(line) && !buildStopLine.MatchString(line) {
			p.collecting.Output += line + "\n"
			p.out.WriteString(line + "\n")
			return
		}
		p.Flush()
		return
	}
	m := failedLineRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	rm := ruleLineRE.FindStringSubmatch(p.lastLine)
	if rm == nil {
		p.w.Add("Unknown line when parsing ninja stdout: %q", p.lastLine)
		return
	}
	p.collecting = &Failure{
		Rule:         rm[1],
		OutputNodes:  strings.Fields(m[1]),
		Dependencies: []string{},
	}
	p.out.WriteString(p.lastLine + "\n" + line + "\n")
}

// Flush closes the failure being collected, if any.
// Parse calls it when a failure's output ends; call it again at
// end of stream for output cut short.
func (p *OutputParser) Flush() {
	if p.collecting == nil {
		return
	}
	p.failures = append(p.failures, p.collecting)
	p.collecting = nil
}

// Failures returns failures found so far.
func (p *OutputParser) Failures() []*Failure {
	return p.failures
}

// FailureOutput returns progress lines, FAILED: lines and output of
// all failed edges, in stdout order.
func (p *OutputParser) FailureOutput() string {
	return p.out.String()
}
