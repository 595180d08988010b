// Package linesource reads homework files into numbered lines for the
// snailfish engine. It only splits and filters; it never interprets a line.
package linesource

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"snailfish/internal/logging"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Line is one raw input line and its 1-based position in the source.
type Line struct {
	Number int
	Text   string
}

// Options controls filtering.
type Options struct {
	// CommentPrefix marks lines to drop. Empty disables comments.
	CommentPrefix string
}

// Read splits r into lines, dropping a trailing carriage return, blank lines
// and comment lines. Other whitespace is preserved so the parser can reject it.
func Read(r io.Reader, opts Options) ([]Line, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var lines []Line
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if opts.CommentPrefix != "" && strings.HasPrefix(text, opts.CommentPrefix) {
			continue
		}
		lines = append(lines, Line{Number: n, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", n+1, err)
	}
	logging.InputDebug("read %d of %d lines", len(lines), n)
	return lines, nil
}

// ReadFile opens path and reads it with Read. A path of "-" reads stdin.
func ReadFile(path string, opts Options) ([]Line, error) {
	if path == "-" {
		return Read(os.Stdin, opts)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	logging.Input("reading %s", path)
	return Read(f, opts)
}
