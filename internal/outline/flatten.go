package outline

import "github.com/dgallion1/clausetree/internal/doctree"

// Row is one node of a Document in flat form.
type Row struct {
	Group     string `json:"group"`
	Section   string `json:"section"`
	ChapterID string `json:"chapter_id"`
	Title     string `json:"chapter_title"`
	FullPath  string `json:"full_path"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	Depth     int    `json:"depth"`
}

// Flatten lists every node in document order.
func Flatten(doc *doctree.Document) []Row {
	var rows []Row
	var visit func(g *doctree.Group, s *doctree.Section, n *doctree.Node, depth int)
	visit = func(g *doctree.Group, s *doctree.Section, n *doctree.Node, depth int) {
		rows = append(rows, Row{
			Group:     g.Label,
			Section:   s.Name,
			ChapterID: n.ChapterID,
			Title:     n.ChapterTitle,
			FullPath:  n.FullPath,
			StartPage: n.StartPage,
			EndPage:   n.EndPage,
			Depth:     depth,
		})
		for _, c := range n.Children {
			visit(g, s, c, depth+1)
		}
	}
	for _, g := range doc.Groups {
		for _, s := range g.Sections {
			for _, n := range s.Chapters {
				visit(g, s, n, 0)
			}
		}
	}
	return rows
}
