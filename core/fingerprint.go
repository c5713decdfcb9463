package core

import (
	"encoding/hex"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint computes a deterministic cache key component for a
// (query, limit) pair using BLAKE2b-256. Identical pairs always map to the
// same fingerprint; different limits for the same query produce different
// fingerprints.
func Fingerprint(query string, limit int) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(query))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.Itoa(limit)))
	return hex.EncodeToString(h.Sum(nil))
}
