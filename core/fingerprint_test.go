package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Fingerprint("resource management", 10), Fingerprint("resource management", 10))
	})

	t.Run("limit changes the fingerprint", func(t *testing.T) {
		assert.NotEqual(t, Fingerprint("resource management", 10), Fingerprint("resource management", 5))
	})

	t.Run("query changes the fingerprint", func(t *testing.T) {
		assert.NotEqual(t, Fingerprint("resource management", 10), Fingerprint("error handling", 10))
	})

	t.Run("hex encoded 256-bit digest", func(t *testing.T) {
		fp := Fingerprint("q", 1)
		assert.Len(t, fp, 64)
	})
}
