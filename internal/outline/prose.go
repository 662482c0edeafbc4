package outline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// demoteProseTitle moves a title that reads like running text into the body.
// Numbered list items inside a clause ("2 the vehicle shall, where fitted,
// ...") otherwise end up as headings with sentence titles.
func demoteProseTitle(n *arenaNode, zh bool) {
	if n.title == "" || !isProse(n, zh) {
		return
	}
	n.lines = append([]string{n.title}, n.lines...)
	n.title = ""
}

func isProse(n *arenaNode, zh bool) bool {
	title := n.title
	if zh && hasHan(title) {
		if top, ok := atoi(leadingDigits.FindString(n.id)); ok && top <= 3 {
			return false
		}
		return strings.ContainsAny(title, "，。：,:") || utf8.RuneCountInString(title) > 30
	}

	if strings.ToUpper(title) == title && strings.IndexFunc(title, unicode.IsLetter) >= 0 {
		return false
	}
	if len(n.lines) > 0 {
		if r, _ := utf8.DecodeRuneInString(n.lines[0]); unicode.IsLower(r) {
			return true
		}
	}
	return strings.ContainsAny(title, ",;!?") || utf8.RuneCountInString(title) > 50
}

func hasHan(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return unicode.Is(unicode.Han, r) }) >= 0
}
