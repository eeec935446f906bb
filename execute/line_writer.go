// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package execute

import "bytes"

// LineWriter is an io.Writer that calls F for each complete line
// written, newline included. Call Close to get a last line without
// newline.
type LineWriter struct {
	F func(line string)

	buf []byte
}

// Write implements io.Writer.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.F(string(w.buf[:i+1]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Close flushes a pending partial line.
func (w *LineWriter) Close() error {
	if len(w.buf) > 0 {
		w.F(string(w.buf))
		w.buf = nil
	}
	return nil
}
