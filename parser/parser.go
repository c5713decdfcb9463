// Copyright 2025 The Guidex Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/guidex/core"
)

var (
	ruleHeaderRe     = regexp.MustCompile(`^### <a name="([^"]+)">\s*</a>\s*(.+)$`)
	categoryHeaderRe = regexp.MustCompile(`^# <a name="[^"]+">\s*</a>\s*(\S+):\s+(.+)$`)
	sectionHeaderRe  = regexp.MustCompile(`^##### (.+)$`)
	anyHeadingRe     = regexp.MustCompile(`^#{1,3} `)
)

// Parse reads a rulebook markdown file into documents and a category map.
// Malformed rule headers are skipped with a warning; Parse never fails on
// document content.
func Parse(content string) ([]*core.Document, map[string]core.Category) {
	lines := strings.Split(content, "\n")

	// Category display names come from the top-level headers.
	categoryNames := make(map[string]string)
	for _, line := range lines {
		if caps := categoryHeaderRe.FindStringSubmatch(line); caps != nil {
			categoryNames[caps[1]] = caps[2]
		}
	}

	var documents []*core.Document
	i := 0
	for i < len(lines) {
		caps := ruleHeaderRe.FindStringSubmatch(lines[i])
		if caps == nil {
			i++
			continue
		}

		anchor := caps[1]
		id, title, ok := splitIDTitle(caps[2])
		if !ok {
			slog.Warn("rule header has no ':' separator, skipping",
				"line", i+1, "content", lines[i])
			i++
			continue
		}
		if id == "" {
			slog.Warn("empty rule id, skipping", "line", i+1, "content", lines[i])
			i++
			continue
		}

		start := i
		i++
		var sections []core.Section
		var heading string
		var body []string
		inSection := false

		// A rule's body runs until the next level 1-3 heading. Level 5
		// headings open subsections.
		for i < len(lines) {
			line := lines[i]
			if anyHeadingRe.MatchString(line) &&
				!strings.HasPrefix(line, "##### ") &&
				!strings.HasPrefix(line, "###### ") {
				break
			}
			if caps := sectionHeaderRe.FindStringSubmatch(line); caps != nil {
				if inSection {
					sections = appendSection(sections, heading, body)
				}
				heading = caps[1]
				body = body[:0]
				inSection = true
			} else if inSection {
				body = append(body, line)
			}
			i++
		}
		if inSection {
			sections = appendSection(sections, heading, body)
		}

		documents = append(documents, &core.Document{
			ID:          id,
			Anchor:      anchor,
			Title:       title,
			Category:    extractCategory(id),
			Sections:    sections,
			RawMarkdown: strings.Join(lines[start:i], "\n"),
		})
	}

	// Categories are a projection of the parsed documents. A prefix with no
	// top-level header falls back to the prefix as its display name.
	counts := make(map[string]int)
	for _, doc := range documents {
		counts[doc.Category]++
	}
	categories := make(map[string]core.Category, len(counts))
	for key, count := range counts {
		name, ok := categoryNames[key]
		if !ok {
			name = key
		}
		categories[key] = core.Category{
			Key:           key,
			Name:          name,
			DocumentCount: count,
		}
	}

	return documents, categories
}

// splitIDTitle separates "P.1: Express ideas directly" into id and title.
// Splits on the first ": " so titles may themselves contain colons; falls
// back to a bare ':' for headers written without the space.
func splitIDTitle(rest string) (id, title string, ok bool) {
	if pos := strings.Index(rest, ": "); pos >= 0 {
		return strings.TrimSpace(rest[:pos]), strings.TrimSpace(rest[pos+2:]), true
	}
	if pos := strings.Index(rest, ":"); pos >= 0 {
		return strings.TrimSpace(rest[:pos]), strings.TrimSpace(rest[pos+1:]), true
	}
	return "", "", false
}

// extractCategory returns the document id's leading segment: "SL.con.1"
// belongs to "SL", "P.1" to "P".
func extractCategory(id string) string {
	if pos := strings.Index(id, "."); pos >= 0 {
		return id[:pos]
	}
	return id
}

func appendSection(sections []core.Section, heading string, body []string) []core.Section {
	content := strings.TrimSpace(strings.Join(body, "\n"))
	if content == "" && heading == "" {
		return sections
	}
	return append(sections, core.Section{Heading: heading, Content: content})
}
