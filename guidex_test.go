package guidex

import (
	"testing"

	"github.com/poiesic/guidex/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppValidation(t *testing.T) {
	t.Run("corpus path required", func(t *testing.T) {
		_, err := NewApp(&Config{RulebookFile: "rules.md"})
		assert.ErrorContains(t, err, "corpus path")
	})

	t.Run("rulebook file required", func(t *testing.T) {
		_, err := NewApp(&Config{CorpusPath: t.TempDir()})
		assert.ErrorContains(t, err, "rulebook file")
	})

	t.Run("invalid embedding config", func(t *testing.T) {
		_, err := NewApp(&Config{
			CorpusPath:   t.TempDir(),
			RulebookFile: "rules.md",
			AI:           ai.NewConfig(ai.WithDimensions(0)),
		})
		assert.Error(t, err)
	})
}

func TestNewAppAssemblesWithoutRedis(t *testing.T) {
	app, err := NewApp(&Config{
		CorpusPath:   t.TempDir(),
		RulebookFile: "rules.md",
	})
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.engine)
	assert.NotNil(t, app.updater)
	assert.Nil(t, app.redisStore, "no redis configured")
	assert.Nil(t, app.snapshot.Load(), "snapshot loads lazily")
}
