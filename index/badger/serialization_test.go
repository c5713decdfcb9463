package badger

import (
	"testing"

	"github.com/poiesic/guidex/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowSerializationRoundTrip(t *testing.T) {
	row := index.Row{
		ID:        "P.1",
		Title:     "Prefer early returns",
		Category:  "P",
		Text:      "Prefer early returns. Nesting hides the happy path.",
		Embedding: []float32{0.25, -0.5, 0.125, 1},
	}

	decoded, err := UnmarshalRow(MarshalRow(row))
	require.NoError(t, err)
	assert.Equal(t, row, decoded)
}

func TestRowSerializationRejectsGarbage(t *testing.T) {
	_, err := UnmarshalRow([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}

func TestRowSerializationRejectsCorruptVectorLength(t *testing.T) {
	t.Run("negative length", func(t *testing.T) {
		// Four empty strings followed by a zigzag varint decoding to -1.
		_, err := UnmarshalRow([]byte{0x00, 0x00, 0x00, 0x00, 0x01})
		assert.ErrorIs(t, err, errInvalidVectorLength)
	})

	t.Run("length exceeds payload", func(t *testing.T) {
		// Four empty strings, then a claimed vector of 1000 floats with no
		// payload behind it.
		_, err := UnmarshalRow([]byte{0x00, 0x00, 0x00, 0x00, 0xd0, 0x0f})
		assert.ErrorIs(t, err, errInvalidVectorLength)
	})
}
