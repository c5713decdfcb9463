package parser

import (
	"strings"

	"github.com/poiesic/guidex/core"
)

// maxEmbeddingTextRunes bounds the composed embedding input so oversized
// rules don't blow up embedding latency.
const maxEmbeddingTextRunes = 2500

// ComposeEmbeddingText builds the canonical embedding input for a document:
// the id and title, the Reason section, and the first Example section. The
// result is deterministic and truncated on a rune boundary.
func ComposeEmbeddingText(doc *core.Document) string {
	parts := []string{doc.ID + ": " + doc.Title}

	for _, section := range doc.Sections {
		if section.Heading == "Reason" {
			parts = append(parts, section.Content)
			break
		}
	}
	for _, section := range doc.Sections {
		if strings.HasPrefix(section.Heading, "Example") {
			parts = append(parts, section.Content)
			break
		}
	}

	text := strings.Join(parts, ". ")
	if runes := []rune(text); len(runes) > maxEmbeddingTextRunes {
		return string(runes[:maxEmbeddingTextRunes])
	}
	return text
}
