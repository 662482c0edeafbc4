package doctree

// Line is one extracted text line in reading order.
type Line struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

// Table is a detected table identified by its caption and the page it sits on.
type Table struct {
	ID   string `json:"id"`
	Page int    `json:"page"`
}

// Source is the linear extraction output of a document, ready for outline reconstruction.
type Source struct {
	Title  string  // Document title (from metadata or filename)
	Lines  []Line  // Non-decreasing page numbers
	Tables []Table // Caption records, may be empty
}

// Document is the reconstructed outline of a document.
type Document struct {
	Groups   []*Group        `json:"groups"`
	Glossary map[string]Term `json:"glossary,omitempty"`
}

// Group is a top-level split of a document: the regulation body or one annex.
type Group struct {
	Label    string     `json:"label"` // "regulation" or e.g. "ANNEX 1"
	Sections []*Section `json:"sections"`
}

// Section is a nested split of a group: the main body or one appendix.
type Section struct {
	Name     string  `json:"name"`    // "MAIN" or e.g. "APPENDIX A"
	Context  string  `json:"context"` // Text with no structural home (preamble, banners)
	Chapters []*Node `json:"chapters"`
}

// Node is one clause of the outline.
type Node struct {
	ChapterID    string   `json:"chapter_id"`
	ChapterTitle string   `json:"chapter_title"`
	RawText      string   `json:"raw_text"`
	StartPage    int      `json:"start_page"`
	EndPage      int      `json:"end_page"`
	TableNames   []string `json:"table_names"`
	Children     []*Node  `json:"children"`
	FullPath     string   `json:"full_path"`
}

// Term is one glossary entry, keyed by its CJK form in Document.Glossary.
type Term struct {
	English      string `json:"en,omitempty"`
	Abbreviation string `json:"abbr,omitempty"`
}

// Chunk is a sized text segment with structural context, ready for downstream matching.
type Chunk struct {
	Text       string   // Chunk text content
	Index      int      // Sequence number within document
	Breadcrumb []string // e.g. ["regulation", "MAIN", "5 Requirements", "5.2 Marking"]
	PageStart  int
	PageEnd    int
}

// Walk visits every node of the document depth-first in document order.
// fn receives the enclosing group and section.
func (d *Document) Walk(fn func(g *Group, s *Section, n *Node)) {
	var visit func(g *Group, s *Section, n *Node)
	visit = func(g *Group, s *Section, n *Node) {
		fn(g, s, n)
		for _, c := range n.Children {
			visit(g, s, c)
		}
	}
	for _, g := range d.Groups {
		for _, s := range g.Sections {
			for _, n := range s.Chapters {
				visit(g, s, n)
			}
		}
	}
}

// NodeCount returns the number of nodes in the document.
func (d *Document) NodeCount() int {
	n := 0
	d.Walk(func(*Group, *Section, *Node) { n++ })
	return n
}
