package outline

import (
	"strings"

	"github.com/dgallion1/clausetree/internal/doctree"
)

// sectionPlan is the per-section outcome of spine selection.
type sectionPlan struct {
	onSpine  map[int]bool // block index -> selected
	fallback bool
}

// planSection chooses which blocks of a section become outline nodes.
func (r *Reconstructor) planSection(sb sectionBlocks, w Window, zh bool) sectionPlan {
	var (
		eligible []*Candidate
		pos      = map[*Candidate]int{}
	)
	for i, b := range sb.blocks {
		if b.head == nil || b.head.IsMarker() || !Plausible(b.head) {
			continue
		}
		eligible = append(eligible, b.head)
		pos[b.head] = i
	}
	eligible = voteLetters(eligible, zh, r.profile.LetterMajority, expectedLetter(sb.name))

	keys := make([]Key, len(eligible))
	for i, c := range eligible {
		keys[i] = c.Key
	}
	plan := sectionPlan{onSpine: map[int]bool{}}
	chain := longestChain(keys, r.profile)
	if len(chain) >= 2 {
		for _, i := range chain {
			plan.onSpine[pos[eligible[i]]] = true
		}
		return plan
	}

	plan.fallback = true
	for _, c := range eligible {
		if c.Key.Lettered || (c.HasTop && w.Admits(c.Top)) {
			plan.onSpine[pos[c]] = true
		}
	}
	return plan
}

// buildSection turns a section's blocks into its context and node forest.
// Every input line ends up either in the context or in exactly one node.
func (r *Reconstructor) buildSection(sb sectionBlocks, w Window, zh bool) *doctree.Section {
	plan := r.planSection(sb, w, zh)

	var (
		a       arena
		spine   []int
		context []string
		last    = -1
	)
	for i, b := range sb.blocks {
		if plan.onSpine[i] {
			n := a.add(arenaNode{
				id:    b.head.RawID,
				title: b.head.Title,
				start: b.line.Page,
				end:   b.line.Page,
			})
			a.appendLines(n, b.body)
			spine = append(spine, n)
			last = n
			continue
		}
		if last < 0 {
			for _, l := range b.lines() {
				context = append(context, l.Text)
			}
			continue
		}
		a.appendLines(last, b.lines())
	}

	if r.profile.DemoteProseTitles {
		for _, i := range spine {
			demoteProseTitle(&a.nodes[i], zh)
		}
	}

	roots := buildTree(&a, spine)
	sec := &doctree.Section{
		Name:     sb.name,
		Context:  strings.Join(context, "\n"),
		Chapters: make([]*doctree.Node, 0, len(roots)),
	}
	for _, i := range roots {
		sec.Chapters = append(sec.Chapters, a.freeze(i))
	}
	r.log.Debug("section built",
		"section", sb.name,
		"blocks", len(sb.blocks),
		"spine", len(spine),
		"fallback", plan.fallback,
	)
	return sec
}
