/*
Package update keeps the rulebook index in step with its git corpus.

Staleness is detected by comparing the cached corpus revision against git
HEAD and probing the index table for liveness. A stale index triggers the
full re-index pipeline: parse, compose, batch-embed, atomically replace the
vector table, then invalidate and repopulate the cache. Concurrent update
triggers collapse into a single run.
*/
package update
