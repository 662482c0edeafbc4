// Package outline rebuilds the clause hierarchy of a regulatory or standards
// document from its extracted text lines.
//
// Reconstruction runs in stages: normalize lines, detect heading candidates
// in a generous pass, calibrate the chapter-number window from their
// distribution, detect again inside that window, split the document into
// annex groups and appendix sections, pick the longest consistent numbering
// chain per section, fold everything else back in as prose, then build the
// tree and annotate paths, tables and the glossary.
package outline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/clausetree/internal/doctree"
)

// ErrPageOrder is returned when input pages are negative or decrease.
var ErrPageOrder = errors.New("page numbers must be non-negative and non-decreasing")

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconstructor) {
		if l != nil {
			r.log = l
		}
	}
}

// Reconstructor turns line sequences into Documents. It holds no per-call
// state and is safe for concurrent use.
type Reconstructor struct {
	profile Profile
	det     *detector
	log     *slog.Logger
}

// New creates a Reconstructor for the given profile.
func New(p Profile, opts ...Option) *Reconstructor {
	p = p.withDefaults()
	r := &Reconstructor{
		profile: p,
		det:     newDetector(p),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Profile returns the profile in effect, with defaults applied.
func (r *Reconstructor) Profile() Profile {
	return r.profile
}

// Reconstruct builds the outline of one document. Lines must be in reading
// order with non-decreasing, non-negative page numbers; tables may be nil.
func (r *Reconstructor) Reconstruct(lines []doctree.Line, tables []doctree.Table) (*doctree.Document, error) {
	if err := checkPages(lines); err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}

	norm := make([]doctree.Line, 0, len(lines))
	for _, l := range lines {
		text := Normalize(l.Text, r.profile.MaxNormalizeRounds)
		if text == "" {
			continue
		}
		norm = append(norm, doctree.Line{Text: text, Page: l.Page})
	}
	zh := r.isChinese(norm)

	generous := Window{Min: 1, Max: r.profile.MaxChapterNumber}
	var tops []int
	for _, l := range norm {
		if c, ok := r.det.detect(l.Text, generous); ok && c.HasTop {
			tops = append(tops, c.Top)
		}
	}
	window := AnalyzeDistribution(tops, r.profile)

	blocks, cands := segment(norm, r.det, window)
	order := DetectSchemeOrder(cands)
	for _, c := range cands {
		if !c.IsMarker() {
			c.Key = ParseKey(c.RawID, order, r.profile)
		}
	}
	r.log.Debug("outline calibrated",
		"lines", len(norm),
		"zh", zh,
		"window_min", window.Min,
		"window_max", window.Max,
		"regulation", window.Regulation,
		"order", order.String(),
		"candidates", len(cands),
	)

	doc := &doctree.Document{Groups: []*doctree.Group{}}
	for _, g := range partition(blocks) {
		grp := &doctree.Group{Label: g.label, Sections: make([]*doctree.Section, 0, len(g.sections))}
		for _, s := range g.sections {
			grp.Sections = append(grp.Sections, r.buildSection(s, window, zh))
		}
		doc.Groups = append(doc.Groups, grp)
	}

	joinTables(doc, tables)
	annotatePaths(doc)
	if glossary := extractGlossary(doc, r.profile); len(glossary) > 0 {
		doc.Glossary = glossary
	}
	return doc, nil
}

func (r *Reconstructor) isChinese(lines []doctree.Line) bool {
	switch r.profile.Language {
	case "zh":
		return true
	case "en":
		return false
	}
	for i, l := range lines {
		if i >= r.profile.LanguageSample {
			break
		}
		if hasHan(l.Text) {
			return true
		}
	}
	return false
}

func checkPages(lines []doctree.Line) error {
	prev := 0
	for i, l := range lines {
		if l.Page < 0 || l.Page < prev {
			return fmt.Errorf("line %d page %d after page %d: %w", i, l.Page, prev, ErrPageOrder)
		}
		prev = l.Page
	}
	return nil
}
