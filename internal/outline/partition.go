package outline

import (
	"strings"

	"github.com/dgallion1/clausetree/internal/doctree"
)

const (
	defaultGroup   = "regulation"
	defaultSection = "MAIN"
)

// block is a heading line and the body lines up to the next heading.
// The preamble block has no heading.
type block struct {
	head *Candidate
	line doctree.Line
	body []doctree.Line
}

// lines returns every line the block owns, heading first.
func (b block) lines() []doctree.Line {
	if b.head == nil {
		return b.body
	}
	return append([]doctree.Line{b.line}, b.body...)
}

type sectionBlocks struct {
	name   string
	blocks []block
}

type groupBlocks struct {
	label    string
	sections []sectionBlocks
}

// segment splits normalized lines into blocks at every detected candidate.
func segment(lines []doctree.Line, det *detector, w Window) ([]block, []*Candidate) {
	var (
		blocks []block
		cands  []*Candidate
		cur    = block{}
	)
	for _, l := range lines {
		c, ok := det.detect(l.Text, w)
		if !ok {
			cur.body = append(cur.body, l)
			continue
		}
		if cur.head != nil || len(cur.body) > 0 {
			blocks = append(blocks, cur)
		}
		cands = append(cands, c)
		cur = block{head: c, line: l}
	}
	if cur.head != nil || len(cur.body) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks, cands
}

// partition splits blocks into groups at annex banners and each group into
// sections at appendix banners. A banner repeating the current label is a
// page-header echo and stays with the current section.
func partition(blocks []block) []groupBlocks {
	var groups []groupBlocks
	for _, g := range splitAt(blocks, defaultGroup, func(c *Candidate) bool { return c.Scheme == SchemeAnnex }) {
		out := groupBlocks{label: g.name}
		out.sections = splitAt(g.blocks, defaultSection, func(c *Candidate) bool { return c.Scheme == SchemeAppendix })
		if len(out.sections) > 0 {
			groups = append(groups, out)
		}
	}
	return groups
}

func splitAt(blocks []block, def string, isBanner func(*Candidate) bool) []sectionBlocks {
	var out []sectionBlocks
	cur := sectionBlocks{name: def}
	for _, b := range blocks {
		if b.head != nil && isBanner(b.head) {
			label := b.head.Label()
			if cur.name != def && strings.EqualFold(cur.name, label) {
				cur.blocks = append(cur.blocks, b)
				continue
			}
			if len(cur.blocks) > 0 {
				out = append(out, cur)
			}
			cur = sectionBlocks{name: label}
		}
		cur.blocks = append(cur.blocks, b)
	}
	if len(cur.blocks) > 0 {
		out = append(out, cur)
	}
	return out
}
