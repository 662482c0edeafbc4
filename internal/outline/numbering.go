package outline

import (
	"regexp"
	"strconv"
	"strings"
)

// Key is the comparable form of a clause identifier.
type Key struct {
	Parts []int
	// Lettered is set when the first component came from a letter.
	Lettered bool
	// Ordinal is the letter's position in the alphabet (A=1) when Lettered.
	Ordinal int
}

// Empty reports whether the identifier could not be parsed.
func (k Key) Empty() bool { return len(k.Parts) == 0 }

func (k Key) String() string {
	s := make([]string, len(k.Parts))
	for i, p := range k.Parts {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ".")
}

// SchemeOrder tells whether lettered or numeric clauses come first in a document.
type SchemeOrder int

const (
	NumericFirst SchemeOrder = iota
	AlphaFirst
)

func (o SchemeOrder) String() string {
	if o == AlphaFirst {
		return "alpha_first"
	}
	return "numeric_first"
}

var (
	alphaIDPattern   = regexp.MustCompile(`^[A-Z](?:[.\-]\d+)*[.\-]?$`)
	numericIDPattern = regexp.MustCompile(`^\d+(?:[.\-]\d+)*[.\-]?$`)
	separators       = regexp.MustCompile(`[.\-]+`)

	// Dot-only forms used for order detection and letter voting.
	dottedAlpha   = regexp.MustCompile(`^[A-Z](?:\.\d+)*\.?$`)
	dottedNumeric = regexp.MustCompile(`^\d+(?:\.\d+)*\.?$`)
)

// ParseKey converts a raw identifier into a Key. Letters map to ordinals
// starting at 1 under AlphaFirst and at p.LetterOffset+1 under NumericFirst;
// under AlphaFirst numeric top components are shifted past the alphabet.
// Unparsable identifiers yield an empty Key.
func ParseKey(rawID string, order SchemeOrder, p Profile) Key {
	id := strings.TrimSpace(rawID)
	switch {
	case alphaIDPattern.MatchString(id):
		ord := int(id[0]-'A') + 1
		k := Key{Lettered: true, Ordinal: ord}
		top := ord
		if order == NumericFirst {
			top += p.LetterOffset
		}
		k.Parts = append(k.Parts, top)
		rest := strings.Trim(id[1:], ".-")
		if rest == "" {
			return k
		}
		nums, ok := splitNumbers(rest)
		if !ok {
			return Key{}
		}
		k.Parts = append(k.Parts, nums...)
		return k
	case numericIDPattern.MatchString(id):
		nums, ok := splitNumbers(strings.Trim(id, ".-"))
		if !ok {
			return Key{}
		}
		if order == AlphaFirst {
			nums[0] += p.AlphaFirstNumericShift
		}
		return Key{Parts: nums}
	}
	return Key{}
}

func splitNumbers(s string) ([]int, bool) {
	fields := separators.Split(s, -1)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, len(out) > 0
}

// DetectSchemeOrder reports AlphaFirst when the first lettered candidate
// precedes the first numeric one, NumericFirst otherwise.
func DetectSchemeOrder(cands []*Candidate) SchemeOrder {
	firstAlpha, firstNumeric := -1, -1
	for i, c := range cands {
		if firstAlpha < 0 && dottedAlpha.MatchString(c.RawID) {
			firstAlpha = i
		}
		if firstNumeric < 0 && dottedNumeric.MatchString(c.RawID) {
			firstNumeric = i
		}
		if firstAlpha >= 0 && firstNumeric >= 0 {
			break
		}
	}
	if firstAlpha >= 0 && (firstNumeric < 0 || firstAlpha < firstNumeric) {
		return AlphaFirst
	}
	return NumericFirst
}
