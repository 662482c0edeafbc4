package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/clausetree/internal/doctree"
)

// TextParser handles plain text files. A form feed starts a new page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newSourceBuilder(trimExt(filename, ".txt"))
	page := 1
	for scanner.Scan() {
		for i, part := range strings.Split(scanner.Text(), "\f") {
			if i > 0 {
				page++
			}
			b.add(part, page)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.build(), nil
}
