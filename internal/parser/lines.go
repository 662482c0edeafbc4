package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/clausetree/internal/doctree"
)

// captionPattern matches table captions such as "Table 3", "TABLE A.1" or "表2".
var captionPattern = regexp.MustCompile(`^(?:Table|TABLE|表)\s*([A-Z]?\d+(?:[.\-]\d+)*)`)

// sourceBuilder accumulates extracted lines in reading order and records a
// table for every caption line it sees.
type sourceBuilder struct {
	src  *doctree.Source
	seen map[doctree.Table]bool
}

func newSourceBuilder(title string) *sourceBuilder {
	return &sourceBuilder{
		src:  &doctree.Source{Title: title},
		seen: make(map[doctree.Table]bool),
	}
}

// add appends every non-blank line of text on the given page.
func (b *sourceBuilder) add(text string, page int) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.src.Lines = append(b.src.Lines, doctree.Line{Text: line, Page: page})

		trimmed := strings.TrimSpace(line)
		if m := captionPattern.FindString(trimmed); m != "" {
			t := doctree.Table{ID: strings.Join(strings.Fields(m), " "), Page: page}
			if !b.seen[t] {
				b.seen[t] = true
				b.src.Tables = append(b.src.Tables, t)
			}
		}
	}
}

func (b *sourceBuilder) build() *doctree.Source {
	return b.src
}

// trimExt strips any of the given extensions from filename.
func trimExt(filename string, exts ...string) string {
	for _, ext := range exts {
		if strings.HasSuffix(strings.ToLower(filename), ext) {
			return filename[:len(filename)-len(ext)]
		}
	}
	return filename
}
