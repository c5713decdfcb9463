/*
Package badger provides a BadgerDB-backed implementation of index.Store.

Table rows are serialized with MUS format and stored under per-generation
key prefixes. Replacing a table writes a fresh generation and flips the
active-generation pointer in a single transaction, so a table is either
entirely the old rows or entirely the new ones. Searches brute-force scan
the active generation computing cosine distance, which is adequate for
corpora of a few thousand documents.
*/
package badger
