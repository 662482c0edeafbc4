package outline

// Before reports whether a strictly precedes b in document numbering order.
// Components compare pairwise; a proper prefix precedes its extensions.
func Before(a, b Key) bool {
	n := min(len(a.Parts), len(b.Parts))
	for i := 0; i < n; i++ {
		if a.Parts[i] != b.Parts[i] {
			return a.Parts[i] < b.Parts[i]
		}
	}
	return len(a.Parts) < len(b.Parts)
}

// Reasonable reports whether moving from a to b is a plausible next heading.
// Changes in depth, and moves between different parents, are always
// accepted. Siblings must advance by a bounded step: LetterJump for lettered
// top-level clauses, TopLevelJump for numbered ones, SubLevelJump deeper down.
// A top-level step between a number and a letter is held to TopLevelJump.
func Reasonable(a, b Key, p Profile) bool {
	if len(a.Parts) != len(b.Parts) {
		return true
	}
	last := len(a.Parts) - 1
	for i := 0; i < last; i++ {
		if a.Parts[i] != b.Parts[i] {
			return true
		}
	}
	diff := b.Parts[last] - a.Parts[last]
	if last > 0 {
		return p.SubLevelJump.Contains(diff)
	}
	if a.Lettered && b.Lettered {
		return p.LetterJump.Contains(diff)
	}
	return p.TopLevelJump.Contains(diff)
}

// longestChain returns the indices of the longest subsequence of keys in
// which every step satisfies Before and Reasonable.
//
// Ties are broken deterministically: each element links to the earliest
// successor giving the longest continuation, and among equally long chains
// the one starting latest wins, so a table of contents ahead of the body
// falls into context rather than onto the spine.
func longestChain(keys []Key, p Profile) []int {
	n := len(keys)
	if n == 0 {
		return nil
	}
	length := make([]int, n)
	next := make([]int, n)
	best, start := 0, -1
	for i := n - 1; i >= 0; i-- {
		length[i], next[i] = 1, -1
		for j := i + 1; j < n; j++ {
			if length[j]+1 > length[i] && Before(keys[i], keys[j]) && Reasonable(keys[i], keys[j], p) {
				length[i] = length[j] + 1
				next[i] = j
			}
		}
		if length[i] > best {
			best, start = length[i], i
		}
	}
	chain := make([]int, 0, best)
	for i := start; i >= 0; i = next[i] {
		chain = append(chain, i)
	}
	return chain
}
