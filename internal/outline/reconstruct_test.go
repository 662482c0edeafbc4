package outline

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/dgallion1/clausetree/internal/doctree"
)

func linesOf(texts ...string) []doctree.Line {
	out := make([]doctree.Line, len(texts))
	for i, t := range texts {
		out[i] = doctree.Line{Text: t, Page: 1}
	}
	return out
}

func reconstruct(t *testing.T, lines []doctree.Line, tables []doctree.Table) *doctree.Document {
	t.Helper()
	doc, err := New(DefaultProfile()).Reconstruct(lines, tables)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	return doc
}

func mainSection(t *testing.T, doc *doctree.Document) *doctree.Section {
	t.Helper()
	if len(doc.Groups) == 0 || len(doc.Groups[0].Sections) == 0 {
		t.Fatalf("expected at least one group and section, got %+v", doc.Groups)
	}
	return doc.Groups[0].Sections[0]
}

func TestReconstruct_BasicHierarchy(t *testing.T) {
	doc := reconstruct(t, linesOf("1 Scope", "text a", "1.1 General", "text b", "2 Normative references", "text c"), nil)

	if len(doc.Groups) != 1 || doc.Groups[0].Label != "regulation" {
		t.Fatalf("expected single regulation group, got %+v", doc.Groups)
	}
	sec := mainSection(t, doc)
	if sec.Name != "MAIN" {
		t.Errorf("expected section MAIN, got %q", sec.Name)
	}
	if len(sec.Chapters) != 2 {
		t.Fatalf("expected 2 top-level chapters, got %d", len(sec.Chapters))
	}

	one := sec.Chapters[0]
	if one.ChapterID != "1" || one.ChapterTitle != "Scope" || one.RawText != "text a" {
		t.Errorf("unexpected node 1: %+v", one)
	}
	if len(one.Children) != 1 {
		t.Fatalf("expected 1 child under 1, got %d", len(one.Children))
	}
	if c := one.Children[0]; c.ChapterID != "1.1" || c.ChapterTitle != "General" || c.RawText != "text b" {
		t.Errorf("unexpected node 1.1: %+v", c)
	}
	if got := one.Children[0].FullPath; got != "1 Scope/1.1 General" {
		t.Errorf("expected path %q, got %q", "1 Scope/1.1 General", got)
	}

	two := sec.Chapters[1]
	if two.ChapterID != "2" || two.ChapterTitle != "Normative references" || two.RawText != "text c" {
		t.Errorf("unexpected node 2: %+v", two)
	}
}

func TestReconstruct_OutOfWindowNumberBecomesProse(t *testing.T) {
	doc := reconstruct(t, linesOf("1 Scope", "2000 Model", "1.1 Definitions", "more"), nil)
	sec := mainSection(t, doc)

	if len(sec.Chapters) != 1 {
		t.Fatalf("expected 1 top-level chapter, got %d", len(sec.Chapters))
	}
	one := sec.Chapters[0]
	if !strings.Contains(one.RawText, "2000 Model") {
		t.Errorf("expected node 1 raw text to contain %q, got %q", "2000 Model", one.RawText)
	}
	if len(one.Children) != 1 || one.Children[0].RawText != "more" {
		t.Errorf("expected child 1.1 with raw text %q, got %+v", "more", one.Children)
	}
}

func TestReconstruct_DuplicateBannerStaysInSection(t *testing.T) {
	doc := reconstruct(t, linesOf("APPENDIX A", "A.1 Test method", "APPENDIX A", "continuation"), nil)

	var names []string
	for _, g := range doc.Groups {
		for _, s := range g.Sections {
			names = append(names, s.Name)
		}
	}
	if len(names) != 1 || names[0] != "APPENDIX A" {
		t.Fatalf("expected a single APPENDIX A section, got %v", names)
	}
	sec := doc.Groups[0].Sections[0]
	if len(sec.Chapters) != 1 || sec.Chapters[0].ChapterID != "A.1" {
		t.Fatalf("expected single chapter A.1, got %+v", sec.Chapters)
	}
	if !strings.Contains(sec.Chapters[0].RawText, "continuation") {
		t.Errorf("expected A.1 raw text to contain continuation, got %q", sec.Chapters[0].RawText)
	}
}

func TestReconstruct_UnreasonableJumpIsNoise(t *testing.T) {
	doc := reconstruct(t, linesOf("1 One", "a", "2 Two", "b", "3 Three", "c", "50 Fifty", "d"), nil)
	sec := mainSection(t, doc)

	if len(sec.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(sec.Chapters))
	}
	three := sec.Chapters[2]
	if three.ChapterID != "3" {
		t.Fatalf("expected last chapter 3, got %q", three.ChapterID)
	}
	if want := "c\n50 Fifty\nd"; three.RawText != want {
		t.Errorf("expected raw text %q, got %q", want, three.RawText)
	}
}

func TestReconstruct_AnnexAndAppendixSplit(t *testing.T) {
	doc := reconstruct(t, linesOf(
		"1 Scope", "text",
		"2 Rules", "more",
		"ANNEX 1", "Annex intro",
		"1 Annex scope", "body",
		"APPENDIX A",
		"A.1 Method", "steps",
	), nil)

	if len(doc.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(doc.Groups))
	}
	if doc.Groups[0].Label != "regulation" || doc.Groups[1].Label != "ANNEX 1" {
		t.Fatalf("unexpected group labels %q, %q", doc.Groups[0].Label, doc.Groups[1].Label)
	}

	annex := doc.Groups[1]
	if len(annex.Sections) != 2 {
		t.Fatalf("expected 2 sections in annex, got %d", len(annex.Sections))
	}
	main, app := annex.Sections[0], annex.Sections[1]
	if main.Name != "MAIN" || main.Context != "ANNEX 1\nAnnex intro" {
		t.Errorf("unexpected annex main section: name %q context %q", main.Name, main.Context)
	}
	if len(main.Chapters) != 1 || main.Chapters[0].RawText != "body" {
		t.Errorf("expected annex chapter 1 with body, got %+v", main.Chapters)
	}
	if app.Name != "APPENDIX A" || app.Context != "APPENDIX A" {
		t.Errorf("unexpected appendix section: name %q context %q", app.Name, app.Context)
	}
	if len(app.Chapters) != 1 || app.Chapters[0].ChapterID != "A.1" || app.Chapters[0].RawText != "steps" {
		t.Errorf("expected chapter A.1 with steps, got %+v", app.Chapters)
	}
}

func TestReconstruct_SynthesizesMissingAncestors(t *testing.T) {
	doc := reconstruct(t, linesOf("1 Scope", "a", "1.2.3 Deep", "b"), nil)
	sec := mainSection(t, doc)

	if len(sec.Chapters) != 1 {
		t.Fatalf("expected 1 root, got %d", len(sec.Chapters))
	}
	one := sec.Chapters[0]
	if len(one.Children) != 1 {
		t.Fatalf("expected synthesized child under 1, got %d children", len(one.Children))
	}
	mid := one.Children[0]
	if mid.ChapterID != "1.2" || mid.ChapterTitle != "" || mid.RawText != "" {
		t.Errorf("expected empty synthesized node 1.2, got %+v", mid)
	}
	if len(mid.Children) != 1 || mid.Children[0].ChapterID != "1.2.3" {
		t.Fatalf("expected 1.2.3 under 1.2, got %+v", mid.Children)
	}
	if got := mid.Children[0].FullPath; got != "1 Scope/1.2/1.2.3 Deep" {
		t.Errorf("expected path %q, got %q", "1 Scope/1.2/1.2.3 Deep", got)
	}
}

func TestReconstruct_RegulationMode(t *testing.T) {
	doc := reconstruct(t, linesOf(
		"60.1 General", "a",
		"60.2 Scope", "b",
		"60.3 Marking", "c",
		"1 stray line here", "d",
	), nil)
	sec := mainSection(t, doc)

	if len(sec.Chapters) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(sec.Chapters))
	}
	if want := "c\n1 stray line here\nd"; sec.Chapters[2].RawText != want {
		t.Errorf("expected raw text %q, got %q", want, sec.Chapters[2].RawText)
	}
}

func TestReconstruct_TableOfContentsGoesToContext(t *testing.T) {
	doc := reconstruct(t, linesOf(
		"Contents", "1 Scope", "2 Terms", "3 Rules",
		"1 Scope", "scope text",
		"2 Terms", "terms text",
		"3 Rules", "rules text",
	), nil)
	sec := mainSection(t, doc)

	if want := "Contents\n1 Scope\n2 Terms\n3 Rules"; sec.Context != want {
		t.Errorf("expected context %q, got %q", want, sec.Context)
	}
	if len(sec.Chapters) != 3 || sec.Chapters[0].RawText != "scope text" {
		t.Errorf("expected body chapters, got %+v", sec.Chapters)
	}
}

func TestReconstruct_TablesJoinByPage(t *testing.T) {
	lines := []doctree.Line{
		{Text: "1 Scope", Page: 1},
		{Text: "a", Page: 1},
		{Text: "2 Tests", Page: 2},
		{Text: "b", Page: 3},
	}
	tables := []doctree.Table{{ID: "Table 1", Page: 1}, {ID: "Table 2", Page: 3}, {ID: "Table 9", Page: 9}}
	sec := mainSection(t, reconstruct(t, lines, tables))

	if got := sec.Chapters[0].TableNames; len(got) != 1 || got[0] != "Table 1" {
		t.Errorf("expected [Table 1] on node 1, got %v", got)
	}
	two := sec.Chapters[1]
	if two.StartPage != 2 || two.EndPage != 3 {
		t.Errorf("expected node 2 pages 2-3, got %d-%d", two.StartPage, two.EndPage)
	}
	if got := two.TableNames; len(got) != 1 || got[0] != "Table 2" {
		t.Errorf("expected [Table 2] on node 2, got %v", got)
	}
}

func TestReconstruct_Glossary(t *testing.T) {
	doc := reconstruct(t, linesOf(
		"1 范围", "本文件规定了车载系统的要求。",
		"3 术语和定义", "下列术语适用于本文件。",
		"3.1 车载紧急呼叫系统 in-vehicle emergency call system; IVS", "定义文本",
		"4 缩略语", "ACLR: 邻道泄漏功率比 (Adjacent Channel Leakage Ratio)",
	), nil)

	term, ok := doc.Glossary["车载紧急呼叫系统"]
	if !ok {
		t.Fatalf("expected glossary entry for 车载紧急呼叫系统, got %v", doc.Glossary)
	}
	if term.English != "in-vehicle emergency call system" || term.Abbreviation != "IVS" {
		t.Errorf("unexpected term %+v", term)
	}
	abbr, ok := doc.Glossary["邻道泄漏功率比"]
	if !ok {
		t.Fatalf("expected glossary entry for 邻道泄漏功率比, got %v", doc.Glossary)
	}
	if abbr.Abbreviation != "ACLR" || abbr.English != "Adjacent Channel Leakage Ratio" {
		t.Errorf("unexpected abbreviation %+v", abbr)
	}
}

func TestReconstruct_RejectsBadPages(t *testing.T) {
	r := New(DefaultProfile())
	cases := [][]doctree.Line{
		{{Text: "1 Scope", Page: 2}, {Text: "a", Page: 1}},
		{{Text: "1 Scope", Page: -1}},
	}
	for i, lines := range cases {
		if _, err := r.Reconstruct(lines, nil); !errors.Is(err, ErrPageOrder) {
			t.Errorf("case %d: expected ErrPageOrder, got %v", i, err)
		}
	}
}

func TestReconstruct_EmptyInput(t *testing.T) {
	doc := reconstruct(t, nil, nil)
	if len(doc.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(doc.Groups))
	}
}

func TestReconstruct_NoPlausibleHeadingsIsAllContext(t *testing.T) {
	lines := []string{
		"This regulation applies to lamps.",
		"5 50 Hz filter",
		"the approval authority may refuse",
		"7 220 V supply",
	}
	doc := reconstruct(t, linesOf(lines...), nil)

	if len(doc.Groups) != 1 || len(doc.Groups[0].Sections) != 1 {
		t.Fatalf("expected one group with one section, got %+v", doc.Groups)
	}
	if doc.Groups[0].Label != "regulation" {
		t.Errorf("expected group regulation, got %q", doc.Groups[0].Label)
	}
	sec := mainSection(t, doc)
	if sec.Name != "MAIN" {
		t.Errorf("expected section MAIN, got %q", sec.Name)
	}
	if want := strings.Join(lines, "\n"); sec.Context != want {
		t.Errorf("expected context %q, got %q", want, sec.Context)
	}
	if sec.Chapters == nil || len(sec.Chapters) != 0 {
		t.Errorf("expected empty non-nil chapters, got %#v", sec.Chapters)
	}
	if doc.NodeCount() != 0 {
		t.Errorf("expected no clauses, got %d", doc.NodeCount())
	}
}

func TestReconstruct_SentenceStartingWithAIsNotAClause(t *testing.T) {
	doc := reconstruct(t, linesOf(
		"1 Scope", "text",
		"2 Requirements",
		"A vehicle shall comply with the following.",
		"2.1 Marking", "marking text",
	), nil)
	sec := mainSection(t, doc)

	if len(sec.Chapters) != 2 {
		t.Fatalf("expected 2 top-level chapters, got %d", len(sec.Chapters))
	}
	two := sec.Chapters[1]
	if two.ChapterID != "2" || two.RawText != "A vehicle shall comply with the following." {
		t.Errorf("expected sentence in body of 2, got %+v", two)
	}
	if len(two.Children) != 1 {
		t.Fatalf("expected 1 child under 2, got %d", len(two.Children))
	}
	if c := two.Children[0]; c.ChapterID != "2.1" || c.ChapterTitle != "Marking" || c.RawText != "marking text" {
		t.Errorf("unexpected node 2.1: %+v", c)
	}
}

func TestReconstruct_AppendixLetteredFromBanner(t *testing.T) {
	doc := reconstruct(t, linesOf(
		"1 Scope", "text",
		"2 Rules", "r",
		"APPENDIX B",
		"B.1 Method", "m",
		"B.2 Results", "res",
	), nil)

	secs := doc.Groups[0].Sections
	if len(secs) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(secs))
	}
	app := secs[1]
	if app.Name != "APPENDIX B" || app.Context != "APPENDIX B" {
		t.Errorf("unexpected appendix section: name %q context %q", app.Name, app.Context)
	}
	if len(app.Chapters) != 2 {
		t.Fatalf("expected chapters B.1 and B.2, got %+v", app.Chapters)
	}
	if c := app.Chapters[0]; c.ChapterID != "B.1" || c.ChapterTitle != "Method" || c.RawText != "m" {
		t.Errorf("unexpected node B.1: %+v", c)
	}
	if c := app.Chapters[1]; c.ChapterID != "B.2" || c.ChapterTitle != "Results" || c.RawText != "res" {
		t.Errorf("unexpected node B.2: %+v", c)
	}
}

var messyDocument = []string{
	"Preface to the regulation",
	"1 Scope",
	"scope body",
	"2000 Model",
	"1.1 General",
	"b",
	"1.1.2.1 Very deep clause",
	"deep",
	"2 Terms",
	"5 50 Hz filter",
	"ANNEX 1",
	"annex body",
	"1 Annex scope",
	"x",
	"APPENDIX A",
	"A.1 Method",
	"y",
	"APPENDIX A",
	"continuation",
	"B.2 Stray lettered clause",
}

func TestReconstruct_Deterministic(t *testing.T) {
	lines := linesOf(messyDocument...)
	first, err := json.Marshal(reconstruct(t, lines, nil))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(reconstruct(t, lines, nil))
		if err != nil {
			t.Fatal(err)
		}
		if string(again) != string(first) {
			t.Fatalf("run %d: output differs\nfirst: %s\nagain: %s", i, first, again)
		}
	}
}

func TestReconstruct_PreservesEveryLine(t *testing.T) {
	doc := reconstruct(t, linesOf(messyDocument...), nil)

	var got []string
	for _, g := range doc.Groups {
		for _, s := range g.Sections {
			if s.Context != "" {
				got = append(got, strings.Split(s.Context, "\n")...)
			}
		}
	}
	doc.Walk(func(_ *doctree.Group, _ *doctree.Section, n *doctree.Node) {
		if n.StartPage == 0 {
			return // synthesized
		}
		got = append(got, strings.TrimSpace(n.ChapterID+" "+n.ChapterTitle))
		if n.RawText != "" {
			got = append(got, strings.Split(n.RawText, "\n")...)
		}
	})

	want := append([]string(nil), messyDocument...)
	sort.Strings(want)
	sort.Strings(got)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("lines not preserved\nexpected %q\ngot      %q", want, got)
	}
}

func TestReconstruct_ChildKeysExtendParentKeys(t *testing.T) {
	doc := reconstruct(t, linesOf(messyDocument...), nil)
	doc.Walk(func(_ *doctree.Group, _ *doctree.Section, n *doctree.Node) {
		parent := canonicalKey(n.ChapterID)
		for _, c := range n.Children {
			key := canonicalKey(c.ChapterID)
			i := strings.LastIndex(key, ".")
			if i < 0 || key[:i] != parent {
				t.Errorf("child %q is not directly under %q", c.ChapterID, n.ChapterID)
			}
		}
	})
}

func TestReconstruct_ProseTitleDemotion(t *testing.T) {
	p := DefaultProfile()
	p.DemoteProseTitles = true
	doc, err := New(p).Reconstruct(linesOf(
		"1 Scope", "Text",
		"2 the vehicle shall, where fitted, stop", "More",
		"3 Marking", "M",
	), nil)
	if err != nil {
		t.Fatal(err)
	}
	sec := mainSection(t, doc)
	if len(sec.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(sec.Chapters))
	}
	two := sec.Chapters[1]
	if two.ChapterTitle != "" {
		t.Errorf("expected demoted title, got %q", two.ChapterTitle)
	}
	if want := "the vehicle shall, where fitted, stop\nMore"; two.RawText != want {
		t.Errorf("expected raw text %q, got %q", want, two.RawText)
	}
	if sec.Chapters[2].ChapterTitle != "Marking" {
		t.Errorf("expected title Marking kept, got %q", sec.Chapters[2].ChapterTitle)
	}
}
