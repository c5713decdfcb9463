/*
Package search executes semantic queries over the indexed rulebook.

Queries run cache-through: results are memoized under a fingerprint of the
query and limit, so a repeated question costs one cache read instead of an
embedding round-trip and an index scan. Document and category lookups are
served from the in-memory snapshot and never touch the vector index.
*/
package search
