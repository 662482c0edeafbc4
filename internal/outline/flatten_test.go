package outline

import "testing"

func TestFlatten(t *testing.T) {
	doc := reconstruct(t, linesOf("1 Scope", "text a", "1.1 General", "text b", "2 Normative references", "text c"), nil)
	rows := Flatten(doc)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	want := []struct {
		id    string
		depth int
		path  string
	}{
		{"1", 0, "1 Scope"},
		{"1.1", 1, "1 Scope/1.1 General"},
		{"2", 0, "2 Normative references"},
	}
	for i, w := range want {
		r := rows[i]
		if r.ChapterID != w.id || r.Depth != w.depth || r.FullPath != w.path {
			t.Errorf("row %d: expected %s/%d/%q, got %s/%d/%q", i, w.id, w.depth, w.path, r.ChapterID, r.Depth, r.FullPath)
		}
		if r.Group != "regulation" || r.Section != "MAIN" {
			t.Errorf("row %d: expected regulation/MAIN, got %s/%s", i, r.Group, r.Section)
		}
	}
}
