package gcode

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Section is a named group of command lines.
type Section struct {
	// Title is rendered as the section's leading ";" comment.
	Title string
	Lines []Line
}

// NewSection builds a section.
func NewSection(title string, lines ...Line) Section {
	return Section{Title: title, Lines: lines}
}

// Header returns the section's comment line.
func (s Section) Header() string {
	return ";" + s.Title
}

// Write renders sections to w: each section's header, its lines, and one
// blank line.
func Write(w io.Writer, sections []Section) error {
	bw := bufio.NewWriter(w)
	for _, s := range sections {
		if _, err := bw.WriteString(s.Header()); err != nil {
			return fmt.Errorf("write section %q: %w", s.Title, err)
		}
		for _, l := range s.Lines {
			bw.WriteByte('\n')
			bw.WriteString(l.String())
		}
		if _, err := bw.WriteString("\n\n"); err != nil {
			return fmt.Errorf("write section %q: %w", s.Title, err)
		}
	}
	return bw.Flush()
}

// Render returns the rendered bytes of sections.
func Render(sections []Section) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, sections) // bytes.Buffer writes do not fail
	return buf.Bytes()
}

// AppendTrailing copies r to w verbatim. It is called once, after Write has
// emitted every generated section.
func AppendTrailing(w io.Writer, r io.Reader) (int64, error) {
	n, err := io.Copy(w, r)
	if err != nil {
		return n, fmt.Errorf("append trailing content: %w", err)
	}
	return n, nil
}

// CountLines returns the number of command lines across sections, excluding
// headers and comment-only lines.
func CountLines(sections []Section) int {
	n := 0
	for _, s := range sections {
		for _, l := range s.Lines {
			if l.Code != "" {
				n++
			}
		}
	}
	return n
}
