package chunker

import (
	"strings"
	"unicode"
)

// EstimateTokens gives a rough token count from word counts.
// Han characters count one token each since CJK text has no spaces.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	han := 0
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			han++
		}
	}
	words := len(strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.Is(unicode.Han, r)
	}))
	// Roughly 1.33 tokens per English word.
	tokens := int(float64(words)*1.33) + han
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
