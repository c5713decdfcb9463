package badger

import (
	"fmt"
	"strconv"
	"time"
)

// Key prefixes. Rows of a table live under a per-generation prefix; the
// active generation is a single pointer key flipped atomically on Replace.
const (
	tableRowPrefix = "tbl"
	tableGenPrefix = "tblgen"
)

// makeGenPointerKey generates the key holding a table's active generation.
func makeGenPointerKey(table string) []byte {
	return []byte(fmt.Sprintf("%s:%s", tableGenPrefix, table))
}

// makeRowKey generates the key for a row within a table generation.
func makeRowKey(table, gen, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:%s", tableRowPrefix, table, gen, id))
}

// makeRowPrefix generates the iteration prefix for all rows of a table
// generation.
func makeRowPrefix(table, gen string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:", tableRowPrefix, table, gen))
}

// newGeneration produces a fresh generation identifier. Wall-clock
// nanoseconds are unique enough here: generations are created once per
// re-index and only ever compared for equality.
func newGeneration() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
