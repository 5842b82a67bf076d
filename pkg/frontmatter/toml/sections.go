package toml

import (
	"regexp"
	"strings"
)

// section is a run of lines that starts at a table header, or at the top
// of the document for the root table.
type section struct {
	line int // number of lines before the section
	text string
}

var headerPattern = regexp.MustCompile(`^[ \t]*\[\[?[ \t]*[A-Za-z0-9_\-."' \t]+?[ \t]*\]\]?[ \t]*(#.*)?\r?\n?$`)

// splitSections cuts meta at table header lines. Lines inside multi-line
// strings or open arrays never start a section.
func splitSections(meta string) []section {
	lines := strings.SplitAfter(meta, "\n")

	var (
		sections []section
		start    int
		sc       scanState
	)
	for i, line := range lines {
		if sc.idle() && headerPattern.MatchString(line) {
			if i > start {
				sections = append(sections, section{line: start, text: strings.Join(lines[start:i], "")})
			}
			start = i
			continue
		}
		sc.scan(line)
	}
	return append(sections, section{line: start, text: strings.Join(lines[start:], "")})
}

// scanState tracks just enough TOML lexing to know whether a line break
// falls inside a value.
type scanState struct {
	depth     int
	multiline string // `"""` or `'''` while inside a multi-line string
}

func (s *scanState) idle() bool {
	return s.depth == 0 && s.multiline == ""
}

func (s *scanState) scan(line string) {
	for i := 0; i < len(line); i++ {
		if s.multiline != "" {
			switch {
			case strings.HasPrefix(line[i:], s.multiline):
				i += len(s.multiline) - 1
				s.multiline = ""
			case line[i] == '\\' && s.multiline == `"""`:
				i++
			}
			continue
		}

		switch c := line[i]; c {
		case '#':
			return
		case '"', '\'':
			delim := strings.Repeat(string(c), 3)
			if strings.HasPrefix(line[i:], delim) {
				s.multiline = delim
				i += len(delim) - 1
				continue
			}
			i = closingQuote(line, i)
		case '[', '{':
			s.depth++
		case ']', '}':
			if s.depth > 0 {
				s.depth--
			}
		}
	}
}

// closingQuote returns the index of the quote that ends the single-line
// string opening at i, or the last index of line if it is unterminated.
func closingQuote(line string, i int) int {
	q := line[i]
	for j := i + 1; j < len(line); j++ {
		switch {
		case q == '"' && line[j] == '\\':
			j++
		case line[j] == q:
			return j
		}
	}
	return len(line) - 1
}
