package outline

import "sort"

// AnalyzeDistribution calibrates the chapter window from the top-level
// numbers seen in a generous first pass.
//
// A single number holding more than RegulationShare of the sample (and above
// RegulationMinNumber) selects regulation mode: the window admits only that
// number. Otherwise small documents get [min, max+WindowSlack] capped at
// WindowCeiling, and larger ones are cut at the first gap wider than
// GapThreshold.
func AnalyzeDistribution(numbers []int, p Profile) Window {
	fallback := Window{Min: 1, Max: p.WindowCeiling}
	if len(numbers) == 0 {
		return fallback
	}

	counts := map[int]int{}
	for _, n := range numbers {
		counts[n]++
	}
	mode, best := 0, 0
	for n, c := range counts {
		if c > best || (c == best && n < mode) {
			mode, best = n, c
		}
	}
	if float64(best)/float64(len(numbers)) > p.RegulationShare && mode > p.RegulationMinNumber {
		return Window{Min: mode, Max: mode, Regulation: true}
	}

	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi <= p.WindowCeiling {
		return Window{Min: max(1, lo), Max: min(p.WindowCeiling, hi+p.WindowSlack)}
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] > p.GapThreshold {
			return Window{Min: max(1, lo), Max: sorted[i-1]}
		}
	}
	return fallback
}
