package core

import (
	"sort"
	"strings"
)

// Snapshot is one complete, internally consistent generation of documents and
// categories, identified by the corpus revision that produced it. Snapshots
// are immutable after construction; a re-index publishes a new Snapshot
// wholesale (via an atomic pointer swap) instead of mutating the current one,
// so concurrent readers never observe a partially updated generation.
type Snapshot struct {
	documents  map[string]*Document // keyed by exact ID
	lowerIDs   map[string]string    // lowercased ID -> exact ID
	categories map[string]Category  // keyed by exact key
	lowerKeys  map[string]string    // lowercased key -> exact key
	revision   string
}

// NewSnapshot builds a snapshot from one generation's parse output.
// Later duplicates of an ID win, matching map-insertion semantics; the parser
// is responsible for not producing duplicates in the first place.
func NewSnapshot(documents []*Document, categories map[string]Category, revision string) *Snapshot {
	s := &Snapshot{
		documents:  make(map[string]*Document, len(documents)),
		lowerIDs:   make(map[string]string, len(documents)),
		categories: make(map[string]Category, len(categories)),
		lowerKeys:  make(map[string]string, len(categories)),
		revision:   revision,
	}
	for _, d := range documents {
		s.documents[d.ID] = d
		s.lowerIDs[strings.ToLower(d.ID)] = d.ID
	}
	for key, c := range categories {
		s.categories[key] = c
		s.lowerKeys[strings.ToLower(key)] = key
	}
	return s
}

// Document looks up a document by ID. The match is case-insensitive.
func (s *Snapshot) Document(id string) (*Document, bool) {
	if d, ok := s.documents[id]; ok {
		return d, true
	}
	exact, ok := s.lowerIDs[strings.ToLower(id)]
	if !ok {
		return nil, false
	}
	return s.documents[exact], true
}

// Category looks up a category by key. The match is case-insensitive.
func (s *Snapshot) Category(key string) (Category, bool) {
	if c, ok := s.categories[key]; ok {
		return c, true
	}
	exact, ok := s.lowerKeys[strings.ToLower(key)]
	if !ok {
		return Category{}, false
	}
	return s.categories[exact], true
}

// Categories returns all categories sorted by key ascending.
func (s *Snapshot) Categories() []Category {
	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// CategoryKeys returns all category keys sorted ascending.
func (s *Snapshot) CategoryKeys() []string {
	keys := make([]string, 0, len(s.categories))
	for key := range s.categories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DocumentsInCategory returns the documents whose category equals key
// (exact match), sorted by ID ascending. The membership is re-derived by
// filtering, not read from any cached list.
func (s *Snapshot) DocumentsInCategory(key string) []*Document {
	var out []*Document
	for _, d := range s.documents {
		if d.Category == key {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of documents in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.documents)
}

// Revision returns the corpus revision this snapshot was built from.
func (s *Snapshot) Revision() string {
	return s.revision
}
