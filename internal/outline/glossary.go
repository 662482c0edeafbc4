package outline

import (
	"regexp"
	"strings"

	"github.com/dgallion1/clausetree/internal/doctree"
)

var (
	// 车载紧急呼叫系统 in-vehicle emergency call system; IVS
	termPattern = regexp.MustCompile(`([\p{Han}（）()· \t]{2,})[ \t]*([A-Za-z][A-Za-z \t\-/]*)(?:[;；:：]?[ \t]*([A-Z0-9·]+))?`)
	// ACLR: 邻道泄漏功率比 (Adjacent Channel Leakage Ratio)
	abbrPattern = regexp.MustCompile(`([A-Za-z0-9·\-_]+)[ \t]*[:：]?[ \t]*([\p{Han}·]+)(?:[ \t]*[（(][ \t]*([A-Za-z][A-Za-z \t/\-]*)[ \t]*[）)]?)?`)
)

// extractGlossary scans terms and abbreviations clauses. Keys are the CJK
// form of each term; a later definition of the same term wins.
func extractGlossary(doc *doctree.Document, p Profile) map[string]doctree.Term {
	out := map[string]doctree.Term{}
	doc.Walk(func(_ *doctree.Group, _ *doctree.Section, n *doctree.Node) {
		switch {
		case containsAny(n.ChapterTitle, p.TermsMarkers):
			for _, text := range clauseTexts(n) {
				scanTerms(text, out)
			}
		case containsAny(n.ChapterTitle, p.AbbreviationMarkers):
			for _, text := range clauseTexts(n) {
				scanAbbreviations(text, out)
			}
		}
	})
	return out
}

// clauseTexts returns the node's own body and the title and body of each child.
func clauseTexts(n *doctree.Node) []string {
	texts := []string{n.RawText}
	for _, c := range n.Children {
		texts = append(texts, c.ChapterTitle, c.RawText)
	}
	return texts
}

func scanTerms(text string, out map[string]doctree.Term) {
	for _, line := range strings.Split(text, "\n") {
		for _, m := range termPattern.FindAllStringSubmatch(line, -1) {
			cn := cleanCJK(m[1])
			if cn == "" {
				continue
			}
			out[cn] = doctree.Term{
				English:      strings.TrimSpace(m[2]),
				Abbreviation: strings.TrimSpace(m[3]),
			}
		}
	}
}

func scanAbbreviations(text string, out map[string]doctree.Term) {
	for _, line := range strings.Split(text, "\n") {
		for _, m := range abbrPattern.FindAllStringSubmatch(line, -1) {
			cn := cleanCJK(m[2])
			if cn == "" {
				continue
			}
			out[cn] = doctree.Term{
				English:      strings.TrimSpace(m[3]),
				Abbreviation: strings.TrimSpace(m[1]),
			}
		}
	}
}

// cleanCJK strips brackets and spacing around a CJK term and rejects
// matches with no Han characters.
func cleanCJK(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '（', '）', '(', ')', ' ', '\t':
			return -1
		}
		return r
	}, s)
	if !hasHan(s) {
		return ""
	}
	return s
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
