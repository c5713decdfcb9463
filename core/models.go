package core

// Document is one indexed rule of the corpus (e.g. "P.1: Express ideas
// directly in code"). Documents are produced by the parser during a re-index
// and are immutable once created; the next generation replaces them wholesale.
type Document struct {
	// ID is the stable rule identifier, e.g. "P.1", "SL.con.1", "C-CASE".
	// Unique within a generation.
	ID string `json:"id"`
	// Anchor is the locator within the source document (HTML anchor or
	// source-file pointer). Opaque to the index.
	Anchor string `json:"anchor"`
	// Title is the rule title, e.g. "Express ideas directly in code".
	Title string `json:"title"`
	// Category is the category key, e.g. "P", "SL", "ES".
	Category string `json:"category"`
	// Sections holds the rule's named subsections (Reason, Example,
	// Enforcement, ...) when the corpus format has them.
	Sections []Section `json:"sections,omitempty"`
	// RawMarkdown is the full original text of the rule.
	RawMarkdown string `json:"raw_markdown"`
}

// Section is a named subsection within a document.
type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Category is a derived aggregate over one generation's documents.
// It is a projection, recomputed on every re-index, never stored as
// source of truth.
type Category struct {
	// Key is the category key, e.g. "P", "ES".
	Key string `json:"key"`
	// Name is the display name, e.g. "Philosophy".
	Name string `json:"name"`
	// DocumentCount is the number of documents in the category.
	DocumentCount int `json:"document_count"`
}

// SearchResult is one row of a semantic search response. It is ephemeral,
// derived from a document plus a distance value, and never authoritative.
type SearchResult struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	// Score is a normalized similarity in [0, 1]; higher is better.
	Score float32 `json:"score"`
	// Summary is a bounded-length excerpt of the embedded text.
	Summary string `json:"summary"`
}

// UpdateResult reports the outcome of an update cycle.
type UpdateResult struct {
	// Updated is true when a re-index actually occurred.
	Updated bool `json:"updated"`
	// Revision is the current corpus revision identifier.
	Revision string `json:"revision"`
	// DocumentCount is the number of documents after the update.
	DocumentCount int `json:"document_count"`
}
