package outline

import (
	"strings"

	"github.com/dgallion1/clausetree/internal/doctree"
)

// annotatePaths sets FullPath on every node: "<id> <title>" for roots, the
// parent's path plus "/<id> <title>" below.
func annotatePaths(doc *doctree.Document) {
	var visit func(n *doctree.Node, prefix string)
	visit = func(n *doctree.Node, prefix string) {
		seg := strings.TrimSpace(n.ChapterID + " " + n.ChapterTitle)
		if prefix == "" {
			n.FullPath = seg
		} else {
			n.FullPath = prefix + "/" + seg
		}
		for _, c := range n.Children {
			visit(c, n.FullPath)
		}
	}
	for _, g := range doc.Groups {
		for _, s := range g.Sections {
			for _, n := range s.Chapters {
				visit(n, "")
			}
		}
	}
}

// joinTables lists on each node the tables whose page lies in the node's range.
func joinTables(doc *doctree.Document, tables []doctree.Table) {
	if len(tables) == 0 {
		return
	}
	doc.Walk(func(_ *doctree.Group, _ *doctree.Section, n *doctree.Node) {
		if n.StartPage <= 0 || n.EndPage <= 0 {
			return
		}
		for _, t := range tables {
			if t.Page >= n.StartPage && t.Page <= n.EndPage {
				n.TableNames = append(n.TableNames, t.ID)
			}
		}
	})
}
