package outline

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports whether n lies in [Min, Max].
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Profile holds every threshold and keyword the reconstruction uses.
// A Profile is passed by value and never mutated after construction.
type Profile struct {
	// Language forces "en" or "zh". Empty means detect from the text.
	Language       string `yaml:"language" json:"language"`
	LanguageSample int    `yaml:"language_sample" json:"language_sample"`

	// AppendixKeywords are localized appendix banners, e.g. "附录".
	// Spaces are tolerated between their characters.
	AppendixKeywords []string `yaml:"appendix_keywords" json:"appendix_keywords"`

	MinLineLength      int `yaml:"min_line_length" json:"min_line_length"`
	MaxNormalizeRounds int `yaml:"max_normalize_rounds" json:"max_normalize_rounds"`

	// Distribution analysis.
	MaxChapterNumber    int     `yaml:"max_chapter_number" json:"max_chapter_number"` // first-pass bound
	WindowCeiling       int     `yaml:"window_ceiling" json:"window_ceiling"`
	WindowSlack         int     `yaml:"window_slack" json:"window_slack"`
	GapThreshold        int     `yaml:"gap_threshold" json:"gap_threshold"`
	RegulationShare     float64 `yaml:"regulation_share" json:"regulation_share"`
	RegulationMinNumber int     `yaml:"regulation_min_number" json:"regulation_min_number"`

	// Numbering.
	LetterOffset           int `yaml:"letter_offset" json:"letter_offset"`
	AlphaFirstNumericShift int `yaml:"alpha_first_numeric_shift" json:"alpha_first_numeric_shift"`

	// Jump reasonableness.
	TopLevelJump Range `yaml:"top_level_jump" json:"top_level_jump"`
	SubLevelJump Range `yaml:"sub_level_jump" json:"sub_level_jump"`
	LetterJump   Range `yaml:"letter_jump" json:"letter_jump"`

	LetterMajority float64 `yaml:"letter_majority" json:"letter_majority"`

	// DemoteProseTitles moves sentence-like titles into the node body.
	DemoteProseTitles bool `yaml:"demote_prose_titles" json:"demote_prose_titles"`

	TermsMarkers        []string `yaml:"terms_markers" json:"terms_markers"`
	AbbreviationMarkers []string `yaml:"abbreviation_markers" json:"abbreviation_markers"`
}

// DefaultProfile returns the thresholds observed to work on UNECE regulations
// and GB national standards.
func DefaultProfile() Profile {
	return Profile{
		LanguageSample:         1000,
		AppendixKeywords:       []string{"附录"},
		MinLineLength:          4,
		MaxNormalizeRounds:     10,
		MaxChapterNumber:       1000,
		WindowCeiling:          50,
		WindowSlack:            5,
		GapThreshold:           20,
		RegulationShare:        0.6,
		RegulationMinNumber:    30,
		LetterOffset:           100,
		AlphaFirstNumericShift: 26,
		TopLevelJump:           Range{Min: 1, Max: 5},
		SubLevelJump:           Range{Min: 1, Max: 10},
		LetterJump:             Range{Min: 1, Max: 2},
		LetterMajority:         0.6,
		TermsMarkers:           []string{"术语", "Terms"},
		AbbreviationMarkers:    []string{"缩略", "Abbreviations"},
	}
}

// withDefaults fills zero-valued numeric fields from DefaultProfile so that a
// partially specified profile still behaves.
func (p Profile) withDefaults() Profile {
	d := DefaultProfile()
	if p.LanguageSample <= 0 {
		p.LanguageSample = d.LanguageSample
	}
	if p.MinLineLength <= 0 {
		p.MinLineLength = d.MinLineLength
	}
	if p.MaxNormalizeRounds <= 0 {
		p.MaxNormalizeRounds = d.MaxNormalizeRounds
	}
	if p.MaxChapterNumber <= 0 {
		p.MaxChapterNumber = d.MaxChapterNumber
	}
	if p.WindowCeiling <= 0 {
		p.WindowCeiling = d.WindowCeiling
	}
	if p.WindowSlack < 0 {
		p.WindowSlack = d.WindowSlack
	}
	if p.GapThreshold <= 0 {
		p.GapThreshold = d.GapThreshold
	}
	if p.RegulationShare <= 0 {
		p.RegulationShare = d.RegulationShare
	}
	if p.RegulationMinNumber <= 0 {
		p.RegulationMinNumber = d.RegulationMinNumber
	}
	if p.LetterOffset <= 0 {
		p.LetterOffset = d.LetterOffset
	}
	if p.AlphaFirstNumericShift <= 0 {
		p.AlphaFirstNumericShift = d.AlphaFirstNumericShift
	}
	if p.TopLevelJump == (Range{}) {
		p.TopLevelJump = d.TopLevelJump
	}
	if p.SubLevelJump == (Range{}) {
		p.SubLevelJump = d.SubLevelJump
	}
	if p.LetterJump == (Range{}) {
		p.LetterJump = d.LetterJump
	}
	if p.LetterMajority <= 0 {
		p.LetterMajority = d.LetterMajority
	}
	return p
}
