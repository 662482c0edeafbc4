package outline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	unitValue = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])\d+\s*(?:MHz|GHz|kHz|Hz|dB|mV|µV|V|mA|µA|A|mW|W|Ω|%|°C|°F|mm|cm|km|m|kg|mg|g|ms|min|s|h|rpm|bar|kPa|MPa|Pa)(?:$|[^\p{L}\p{N}_])`)
	mhzRange  = regexp.MustCompile(`(?i)\d+\s*MHz\s*[-~]\s*\d+\s*MHz`)
	pureDigit = regexp.MustCompile(`^\d+\s*$`)
	coordRow  = regexp.MustCompile(`^\d+\s+\d+\s+[A-Z]\s+\d+\s+\d+`)
	digitLead = regexp.MustCompile(`^\d+`)
)

// Plausible filters candidates that pass the detector but read like
// measurements, coordinates or table rows.
func Plausible(c *Candidate) bool {
	if c.Key.Empty() {
		return false
	}
	text := c.RawID + " " + c.Title
	title := strings.TrimSpace(c.Title)
	single := isSingleUpper(c.RawID)

	switch {
	case unitValue.MatchString(text):
		return false
	case mhzRange.MatchString(text):
		return false
	case pureDigit.MatchString(title):
		return false
	case utf8.RuneCountInString(title) < 2:
		return false
	case coordRow.MatchString(text):
		return false
	case single && strings.HasPrefix(title, "———"):
		return false
	}

	parts := strings.Fields(title)
	if single && digitLead.MatchString(title) {
		n := 0
		for _, p := range parts {
			if isDigits(p) {
				n++
			}
		}
		if n >= 2 {
			return false
		}
	}

	if len(parts) >= 4 {
		digits, letters := 0, 0
		for _, p := range parts {
			switch {
			case isDigits(p):
				digits++
			case isSingleUpper(p):
				letters++
			}
		}
		if digits >= 3 && letters >= 1 {
			return false
		}
	}
	return true
}

// voteLetters drops implausible runs of lettered clauses. English sections
// whose lettering does not start at expect keep only clauses lettered expect;
// Chinese documents keep only the majority letter when one dominates.
func voteLetters(cands []*Candidate, zh bool, majority float64, expect byte) []*Candidate {
	var lettered []*Candidate
	for _, c := range cands {
		if dottedAlpha.MatchString(c.RawID) {
			lettered = append(lettered, c)
		}
	}
	if len(lettered) == 0 {
		return cands
	}

	keep := func(*Candidate) bool { return true }
	if zh {
		counts := map[byte]int{}
		for _, c := range lettered {
			counts[c.RawID[0]]++
		}
		var top byte
		best := 0
		for l := byte('A'); l <= 'Z'; l++ {
			if counts[l] > best {
				top, best = l, counts[l]
			}
		}
		if float64(best)/float64(len(lettered)) > majority {
			keep = func(c *Candidate) bool { return c.RawID[0] == top }
		}
	} else if lettered[0].RawID[0] != expect {
		keep = func(c *Candidate) bool { return c.RawID[0] == expect }
	}

	out := cands[:0:0]
	for _, c := range cands {
		if dottedAlpha.MatchString(c.RawID) && !keep(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// expectedLetter is the letter a section's lettered clauses should start at:
// the letter of an appendix banner such as "APPENDIX B", otherwise A.
func expectedLetter(section string) byte {
	f := strings.Fields(section)
	if len(f) < 2 {
		return 'A'
	}
	if last := f[len(f)-1]; isSingleUpper(last) {
		return last[0]
	}
	return 'A'
}
