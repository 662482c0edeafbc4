package outline

import (
	"strings"

	"github.com/dgallion1/clausetree/internal/doctree"
)

// arenaNode is a node under construction. Children are indices into the
// arena so reattachment and ancestor synthesis never chase pointers.
type arenaNode struct {
	id       string
	title    string
	lines    []string
	start    int
	end      int
	children []int
}

type arena struct {
	nodes []arenaNode
}

func (a *arena) add(n arenaNode) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

// appendLines adds text to node i and widens its page range.
func (a *arena) appendLines(i int, lines []doctree.Line) {
	n := &a.nodes[i]
	for _, l := range lines {
		n.lines = append(n.lines, l.Text)
		if l.Page > n.end {
			n.end = l.Page
		}
	}
}

func (a *arena) freeze(i int) *doctree.Node {
	n := a.nodes[i]
	out := &doctree.Node{
		ChapterID:    n.id,
		ChapterTitle: n.title,
		RawText:      strings.Join(n.lines, "\n"),
		StartPage:    n.start,
		EndPage:      n.end,
		TableNames:   []string{},
		Children:     make([]*doctree.Node, 0, len(n.children)),
	}
	for _, c := range n.children {
		out.Children = append(out.Children, a.freeze(c))
	}
	return out
}

// canonicalKey maps "5-2-1." to "5.2.1".
func canonicalKey(id string) string {
	id = strings.ReplaceAll(strings.TrimSpace(id), "-", ".")
	return strings.Trim(id, ".")
}

// buildTree links spine nodes (in document order) into a forest and returns
// the root indices. A node whose parent key is missing gets empty synthetic
// ancestors down to depth two; a depth-two node whose top-level parent is
// missing becomes a root. Duplicate keys resolve to their first occurrence.
func buildTree(a *arena, spine []int) []int {
	index := make(map[string]int, len(spine))
	for _, i := range spine {
		k := canonicalKey(a.nodes[i].id)
		if _, ok := index[k]; !ok {
			index[k] = i
		}
	}

	var roots []int
	attach := func(child int, parentKey string) {
		if p, ok := index[parentKey]; ok && parentKey != "" {
			a.nodes[p].children = append(a.nodes[p].children, child)
			return
		}
		roots = append(roots, child)
	}

	for _, i := range spine {
		parts := strings.Split(canonicalKey(a.nodes[i].id), ".")
		if len(parts) == 1 {
			roots = append(roots, i)
			continue
		}
		for d := 2; d < len(parts); d++ {
			k := strings.Join(parts[:d], ".")
			if _, ok := index[k]; ok {
				continue
			}
			s := a.add(arenaNode{id: k})
			index[k] = s
			attach(s, strings.Join(parts[:d-1], "."))
		}
		attach(i, strings.Join(parts[:len(parts)-1], "."))
	}
	return roots
}
