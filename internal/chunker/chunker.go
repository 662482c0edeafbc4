package chunker

import (
	"strings"

	"github.com/dgallion1/clausetree/internal/doctree"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
}

// ChunkDocument walks an outline and produces clause-aware chunks. Each
// chunk's breadcrumb is [group, section, "<id> <title>", ...]. Section
// context is chunked under [group, section].
func ChunkDocument(doc *doctree.Document, cfg Config) []doctree.Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 100
	}

	var chunks []doctree.Chunk
	index := 0

	for _, g := range doc.Groups {
		for _, s := range g.Sections {
			bc := []string{g.Label, s.Name}
			index = emit(s.Context, bc, 0, 0, cfg, &chunks, index)
			for _, n := range s.Chapters {
				index = walkNode(n, bc, cfg, &chunks, index)
			}
		}
	}

	return chunks
}

// walkNode recursively visits nodes, splitting their text into chunks.
func walkNode(node *doctree.Node, breadcrumb []string, cfg Config, chunks *[]doctree.Chunk, index int) int {
	bc := append(copyBreadcrumb(breadcrumb), strings.TrimSpace(node.ChapterID+" "+node.ChapterTitle))

	index = emit(node.RawText, bc, node.StartPage, node.EndPage, cfg, chunks, index)

	for _, child := range node.Children {
		index = walkNode(child, bc, cfg, chunks, index)
	}
	return index
}

func emit(text string, bc []string, start, end int, cfg Config, chunks *[]doctree.Chunk, index int) int {
	if strings.TrimSpace(text) == "" {
		return index
	}
	parts := []string{text}
	if EstimateTokens(text) > cfg.ChunkSize {
		parts = splitText(text, cfg.ChunkSize, cfg.ChunkOverlap)
	}
	for _, part := range parts {
		if EstimateTokens(part) < cfg.MinChunk {
			continue
		}
		*chunks = append(*chunks, doctree.Chunk{
			Text:       part,
			Index:      index,
			Breadcrumb: copyBreadcrumb(bc),
			PageStart:  start,
			PageEnd:    end,
		})
		index++
	}
	return index
}

// splitText breaks text into chunks of approximately targetTokens, with overlap.
// Extracted lines are the packing unit.
func splitText(text string, targetTokens, overlapTokens int) []string {
	lines := splitLines(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, line := range lines {
		lineTokens := EstimateTokens(line)

		// A single line above the target is split further.
		if lineTokens > targetTokens {
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			result = append(result, splitBySentences(line, targetTokens, overlapTokens)...)
			continue
		}

		if currentTokens+lineTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			// Start next chunk with overlap from end of current.
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
		currentTokens += lineTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

func splitLines(text string) []string {
	var result []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			result = append(result, l)
		}
	}
	return result
}

// splitBySentences breaks a long line into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitSentences does basic sentence splitting, including CJK full stops.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		end := r == '。' || r == '！' || r == '？'
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			end = true
		}
		if end {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// getOverlapText extracts the last N tokens worth of text for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	// Approximate: 1.33 tokens per word.
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
