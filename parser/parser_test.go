package parser

import (
	"strings"
	"testing"

	"github.com/poiesic/guidex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRulebook = `# <a name="s-philosophy"></a>P: Philosophy

### <a name="rp-direct"></a>P.1: Express ideas directly in code

##### Reason

Compilers don't read comments.

##### Example

    class Date {};

##### Enforcement

Very hard in general.

### <a name="rp-cplusplus"></a>P.2: Write in ISO Standard C++

##### Reason

Portability matters.

# <a name="s-errors"></a>E: Error handling

### <a name="re-design"></a>E.1: Develop an error-handling strategy early in a design

##### Reason

Retrofitting is hard.
`

func TestParse(t *testing.T) {
	docs, cats := Parse(sampleRulebook)

	require.Len(t, docs, 3)

	t.Run("documents", func(t *testing.T) {
		p1 := docs[0]
		assert.Equal(t, "P.1", p1.ID)
		assert.Equal(t, "rp-direct", p1.Anchor)
		assert.Equal(t, "Express ideas directly in code", p1.Title)
		assert.Equal(t, "P", p1.Category)
		require.Len(t, p1.Sections, 3)
		assert.Equal(t, "Reason", p1.Sections[0].Heading)
		assert.Equal(t, "Compilers don't read comments.", p1.Sections[0].Content)
		assert.Equal(t, "Example", p1.Sections[1].Heading)
		assert.Equal(t, "Enforcement", p1.Sections[2].Heading)
		assert.True(t, strings.HasPrefix(p1.RawMarkdown, "### <a name=\"rp-direct\">"))
		assert.Contains(t, p1.RawMarkdown, "Very hard in general.")
		assert.NotContains(t, p1.RawMarkdown, "P.2")
	})

	t.Run("categories", func(t *testing.T) {
		require.Len(t, cats, 2)
		assert.Equal(t, core.Category{Key: "P", Name: "Philosophy", DocumentCount: 2}, cats["P"])
		assert.Equal(t, core.Category{Key: "E", Name: "Error handling", DocumentCount: 1}, cats["E"])
	})
}

func TestParseCompoundID(t *testing.T) {
	content := "### <a name=\"rsl-arrays\"></a>SL.con.1: Prefer `array` over C arrays\n\n##### Reason\n\nSafer.\n"
	docs, cats := Parse(content)

	require.Len(t, docs, 1)
	assert.Equal(t, "SL.con.1", docs[0].ID)
	assert.Equal(t, "SL", docs[0].Category)
	// No top-level header for SL: the key doubles as the display name.
	assert.Equal(t, "SL", cats["SL"].Name)
}

func TestParseTitleWithColon(t *testing.T) {
	content := "### <a name=\"x\"></a>C.1: Organize data: use structs\n"
	docs, _ := Parse(content)

	require.Len(t, docs, 1)
	assert.Equal(t, "C.1", docs[0].ID)
	assert.Equal(t, "Organize data: use structs", docs[0].Title)
}

func TestParseSkipsMalformedHeaders(t *testing.T) {
	content := `### <a name="broken"></a>No separator here

### <a name="ok"></a>P.1: Fine

##### Reason

Good.
`
	docs, _ := Parse(content)

	require.Len(t, docs, 1)
	assert.Equal(t, "P.1", docs[0].ID)
}

func TestParseEmpty(t *testing.T) {
	docs, cats := Parse("")
	assert.Empty(t, docs)
	assert.Empty(t, cats)
}

func TestComposeEmbeddingText(t *testing.T) {
	doc := &core.Document{
		ID:       "P.1",
		Title:    "Express ideas directly in code",
		Category: "P",
		Sections: []core.Section{
			{Heading: "Reason", Content: "Compilers don't read comments."},
			{Heading: "Example, bad", Content: "int x; // elapsed time"},
			{Heading: "Example", Content: "class Date {};"},
			{Heading: "Enforcement", Content: "Very hard."},
		},
	}

	text := ComposeEmbeddingText(doc)
	assert.True(t, strings.HasPrefix(text, "P.1: Express ideas directly in code"))
	assert.Contains(t, text, "Compilers don't read comments.")
	assert.Contains(t, text, "int x; // elapsed time", "first example section wins")
	assert.NotContains(t, text, "class Date {};")
	assert.NotContains(t, text, "Very hard.")
}

func TestComposeEmbeddingTextDeterministic(t *testing.T) {
	doc := &core.Document{ID: "E.1", Title: "Develop a strategy"}
	assert.Equal(t, ComposeEmbeddingText(doc), ComposeEmbeddingText(doc))
}

func TestComposeEmbeddingTextTruncates(t *testing.T) {
	doc := &core.Document{
		ID:    "P.9",
		Title: "Long one",
		Sections: []core.Section{
			{Heading: "Reason", Content: strings.Repeat("é", 5000)},
		},
	}

	text := ComposeEmbeddingText(doc)
	runes := []rune(text)
	assert.Len(t, runes, 2500)
	// Truncation must not split a multibyte rune.
	assert.Equal(t, 'é', runes[len(runes)-1])
}
