package outline

import "testing"

func spineOf(a *arena, ids ...string) []int {
	var spine []int
	for _, id := range ids {
		spine = append(spine, a.add(arenaNode{id: id, title: "t " + id, start: 1, end: 1}))
	}
	return spine
}

func TestBuildTree(t *testing.T) {
	var a arena
	spine := spineOf(&a, "1", "1.2.3", "2.1", "1", "3-1-1")
	roots := buildTree(&a, spine)

	var rootIDs []string
	for _, r := range roots {
		rootIDs = append(rootIDs, a.nodes[r].id)
	}
	want := []string{"1", "2.1", "1", "3.1"}
	if len(rootIDs) != len(want) {
		t.Fatalf("expected roots %v, got %v", want, rootIDs)
	}
	for i := range want {
		if rootIDs[i] != want[i] {
			t.Errorf("root %d: expected %q, got %q", i, want[i], rootIDs[i])
		}
	}

	first := a.nodes[roots[0]]
	if len(first.children) != 1 {
		t.Fatalf("expected one child under 1, got %d", len(first.children))
	}
	mid := a.nodes[first.children[0]]
	if mid.id != "1.2" || mid.title != "" {
		t.Errorf("expected synthesized 1.2 with empty title, got %+v", mid)
	}
	if len(mid.children) != 1 || a.nodes[mid.children[0]].id != "1.2.3" {
		t.Errorf("expected 1.2.3 under 1.2")
	}

	synth := a.nodes[roots[3]]
	if len(synth.children) != 1 || a.nodes[synth.children[0]].id != "3-1-1" {
		t.Errorf("expected 3-1-1 under synthesized 3.1, got %+v", synth)
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := map[string]string{
		"5-2-1.": "5.2.1",
		"A.1":    "A.1",
		"7.":     "7",
		" 3-1 ":  "3.1",
	}
	for in, want := range tests {
		if got := canonicalKey(in); got != want {
			t.Errorf("canonicalKey(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestFreeze(t *testing.T) {
	var a arena
	i := a.add(arenaNode{id: "1", title: "Scope", lines: []string{"a", "b"}, start: 2, end: 4})
	n := a.freeze(i)
	if n.RawText != "a\nb" || n.StartPage != 2 || n.EndPage != 4 {
		t.Errorf("unexpected frozen node %+v", n)
	}
	if n.TableNames == nil || n.Children == nil {
		t.Error("expected non-nil table names and children")
	}
}
