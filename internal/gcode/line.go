package gcode

import (
	"strconv"
	"strings"
)

// Word is one positional parameter token, e.g. X85.0 or L32.
type Word struct {
	Letter string
	Value  string
}

// String renders the word.
func (w Word) String() string {
	return w.Letter + w.Value
}

// F builds a word with a float value.
func F(letter string, v float64) Word {
	return Word{Letter: letter, Value: FormatNumber(v)}
}

// I builds a word with an integer value.
func I(letter string, v int) Word {
	return Word{Letter: letter, Value: strconv.Itoa(v)}
}

// S builds a word with a verbatim value.
func S(letter, v string) Word {
	return Word{Letter: letter, Value: v}
}

// Line is one command line: a command code with its words and an optional
// trailing comment. A Line with no Code is a comment-only line.
type Line struct {
	Code    string
	Words   []Word
	Comment string
}

// Cmd builds a command line.
func Cmd(code string, words ...Word) Line {
	return Line{Code: code, Words: words}
}

// Comment builds a comment-only line.
func Comment(text string) Line {
	return Line{Comment: text}
}

// WithComment returns a copy of l carrying a trailing comment.
func (l Line) WithComment(text string) Line {
	l.Comment = text
	return l
}

// String renders the line without a newline.
func (l Line) String() string {
	var b strings.Builder
	b.WriteString(l.Code)
	for _, w := range l.Words {
		b.WriteByte(' ')
		b.WriteString(w.String())
	}
	if l.Comment != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("; ")
		b.WriteString(l.Comment)
	}
	return b.String()
}

// Word returns the value of the first word with the given letter.
func (l Line) Word(letter string) (string, bool) {
	for _, w := range l.Words {
		if w.Letter == letter {
			return w.Value, true
		}
	}
	return "", false
}

// IsMotion reports whether the line is a G0/G1/G2/G3 move.
func (l Line) IsMotion() bool {
	switch l.Code {
	case "G0", "G1", "G2", "G3":
		return true
	}
	return false
}

// FormatNumber renders v as the shortest decimal that round-trips, keeping a
// ".0" suffix on integral values.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
