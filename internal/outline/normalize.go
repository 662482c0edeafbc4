package outline

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// spacedDot joins a numbering token split around a dot: "7 . 1" -> "7.1",
// "7.1. l" -> "7.1.l" (the l is repaired afterwards).
var spacedDot = regexp.MustCompile(`^((?:[A-Za-z]|\d+)(?:\.(?:\d+|l))*)\s*\.\s*(\d|l\b)`)

var ocrDigits = map[string]string{"I": "1", "O": "0"}

// Normalize folds full-width characters to half-width, trims the line and
// repairs OCR damage in its leading numbering token. It runs to a fixed
// point (bounded by rounds) so Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string, rounds int) string {
	if rounds <= 0 {
		rounds = 1
	}
	for i := 0; i < rounds; i++ {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func normalizeOnce(s string) string {
	s = width.Fold.String(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = spacedDot.ReplaceAllString(s, "$1.$2")

	tok, rest := s, ""
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		tok, rest = s[:i], s[i:]
	}
	return repairToken(tok) + rest
}

// repairToken fixes OCR confusions inside a dotted numbering token:
// "l" is read as "1" anywhere, "I" and "O" as "1" and "0" only when another
// segment follows. Tokens that do not look like numbering are returned as is.
func repairToken(tok string) string {
	if !strings.Contains(tok, ".") {
		return tok
	}
	segs := strings.Split(tok, ".")
	last := len(segs) - 1
	if segs[last] == "" {
		last-- // trailing dot
	}
	if last < 1 {
		// "l." alone is not numbering.
		return tok
	}

	first := segs[0]
	switch {
	case isDigits(first):
	case len(first) == 1 && first[0] >= 'A' && first[0] <= 'Z':
	case first == "l":
	default:
		return tok
	}
	for i := 1; i <= last; i++ {
		switch segs[i] {
		case "l", "I", "O":
		default:
			if !isDigits(segs[i]) {
				return tok
			}
		}
	}

	changed := false
	if first == "l" {
		segs[0] = "1"
		changed = true
	}
	for i := 1; i <= last; i++ {
		switch segs[i] {
		case "l":
			segs[i] = "1"
			changed = true
		case "I", "O":
			if i < last {
				segs[i] = ocrDigits[segs[i]]
				changed = true
			} else {
				// A trailing capital ends the token as a word, e.g. "A.I".
				return tok
			}
		}
	}
	if !changed {
		return tok
	}
	return strings.Join(segs, ".")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
