package outline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Scheme classifies how a candidate heading is numbered.
type Scheme int

const (
	SchemeNumeric  Scheme = iota // 5, 5.2, 5-2-1
	SchemeAlpha                  // A, A.1, B-2
	SchemeAnnex                  // ANNEX 1, ATTACHMENT (B)
	SchemeAppendix               // APPENDIX 2, 附录A
)

func (s Scheme) String() string {
	switch s {
	case SchemeNumeric:
		return "numeric"
	case SchemeAlpha:
		return "alpha"
	case SchemeAnnex:
		return "annex"
	case SchemeAppendix:
		return "appendix"
	default:
		return "unknown"
	}
}

// Candidate is a line that looks like a heading.
type Candidate struct {
	RawID  string
	Title  string
	Scheme Scheme
	// Top is the leading number of the identifier, when it has one.
	Top    int
	HasTop bool
	// Key is assigned once the document's scheme order is known.
	Key Key
}

// IsMarker reports whether the candidate is an annex or appendix banner.
func (c *Candidate) IsMarker() bool {
	return c.Scheme == SchemeAnnex || c.Scheme == SchemeAppendix
}

// Label is the banner text used to name a group or section.
func (c *Candidate) Label() string {
	if c.Scheme == SchemeAppendix && !isASCII(c.RawID) {
		return strings.Join(strings.Fields(c.RawID), "")
	}
	return strings.ToUpper(strings.Join(strings.Fields(c.RawID), " "))
}

// Window bounds the top-level numbers a detection pass accepts.
type Window struct {
	Min, Max int
	// Regulation is set when one top-level number dominates the document.
	Regulation bool
}

// Admits reports whether n lies inside the window.
func (w Window) Admits(n int) bool {
	return n >= w.Min && n <= w.Max
}

var (
	markerPattern  = regexp.MustCompile(`(?i)^((APPENDIX|ANNEX|ATTACHMENT)\s+(?:[A-Z0-9]+|\([A-Z0-9]+\)))$`)
	alphaPattern   = regexp.MustCompile(`^([A-Z](?:[.\-]\d+)*[.\-]?)\s+(.+)$`)
	numericPattern = regexp.MustCompile(`^(\d+(?:[.\-]\d+)*[.\-]?)\s+(.+)$`)

	leadingDigits  = regexp.MustCompile(`^\d+`)
	markerDigits   = regexp.MustCompile(`\(?(\d+)\)?$`)
	hasLetter      = regexp.MustCompile(`[A-Za-z\p{Han}]`)
	onlyNumbers    = regexp.MustCompile(`^[\d\s.\-]+$`)
	gridRow        = regexp.MustCompile(`^\d+\s+\d+.*[A-Z]\s+\d+\s+\d+`)
	letterDigitRow = regexp.MustCompile(`^[A-Z]\s*\d+.*$`)
	cellRef        = regexp.MustCompile(`^[A-Z]\d+\s+\d+\s+[A-Z]\s+\d+\s+\d+`)
	digitPair      = regexp.MustCompile(`\d+.*\d+`)
)

// detector recognizes heading candidates on normalized lines.
type detector struct {
	minLen    int
	localized *regexp.Regexp
}

func newDetector(p Profile) *detector {
	d := &detector{minLen: p.MinLineLength}
	var alts []string
	for _, kw := range p.AppendixKeywords {
		var parts []string
		for _, r := range kw {
			if r == ' ' {
				continue
			}
			parts = append(parts, regexp.QuoteMeta(string(r)))
		}
		if len(parts) > 0 {
			alts = append(alts, strings.Join(parts, `\s*`))
		}
	}
	if len(alts) > 0 {
		d.localized = regexp.MustCompile(`^((?:` + strings.Join(alts, "|") + `)\s*[A-Z0-9])$`)
	}
	return d
}

// detect returns the candidate for line, or false when the line is body text.
func (d *detector) detect(line string, w Window) (*Candidate, bool) {
	clean := strings.TrimSpace(line)
	if clean == "" {
		return nil, false
	}
	c := d.match(clean)
	if c == nil {
		return nil, false
	}
	if c.HasTop && !w.Admits(c.Top) {
		return nil, false
	}
	if c.IsMarker() {
		return c, true
	}

	title := c.Title
	switch {
	case !hasLetter.MatchString(title):
		return nil, false
	case onlyNumbers.MatchString(title):
		return nil, false
	case gridRow.MatchString(clean):
		return nil, false
	case letterDigitRow.MatchString(title) && looksLikeTableRow(title):
		return nil, false
	case cellRef.MatchString(clean):
		return nil, false
	}
	if utf8.RuneCountInString(clean) < d.minLen {
		return nil, false
	}
	if isSingleUpper(c.RawID) && digitPair.MatchString(title) && len(strings.Fields(title)) <= 6 {
		return nil, false
	}
	return c, true
}

func (d *detector) match(clean string) *Candidate {
	if d.localized != nil {
		if m := d.localized.FindStringSubmatch(clean); m != nil {
			return &Candidate{RawID: strings.Join(strings.Fields(m[1]), ""), Scheme: SchemeAppendix}
		}
	}
	if m := markerPattern.FindStringSubmatch(clean); m != nil {
		c := &Candidate{RawID: m[1], Scheme: SchemeAnnex}
		if strings.EqualFold(m[2], "APPENDIX") {
			c.Scheme = SchemeAppendix
			if dm := markerDigits.FindStringSubmatch(m[1]); dm != nil {
				c.Top, c.HasTop = atoi(dm[1])
			}
		}
		return c
	}
	if m := alphaPattern.FindStringSubmatch(clean); m != nil {
		return &Candidate{RawID: m[1], Title: strings.TrimSpace(m[2]), Scheme: SchemeAlpha}
	}
	if m := numericPattern.FindStringSubmatch(clean); m != nil {
		c := &Candidate{RawID: m[1], Title: strings.TrimSpace(m[2]), Scheme: SchemeNumeric}
		c.Top, c.HasTop = atoi(leadingDigits.FindString(m[1]))
		return c
	}
	return nil
}

// looksLikeTableRow reports whether the first three fields of s are all
// numbers or single capitals, as in "B 12 C 4".
func looksLikeTableRow(s string) bool {
	parts := strings.Fields(s)
	if len(parts) < 3 {
		return false
	}
	for _, p := range parts[:3] {
		if !isDigits(p) && !isSingleUpper(p) {
			return false
		}
	}
	return true
}

func isSingleUpper(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
