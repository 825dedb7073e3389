package uuid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOrderedGenerator_New(t *testing.T) {
	gen := NewTimeOrderedGenerator()

	first := gen.New()
	second := gen.New()

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, first, second)
}

func TestSequenceGenerator_New(t *testing.T) {
	gen := NewSequenceGenerator("mut")

	assert.Equal(t, "mut-1", gen.New())
	assert.Equal(t, "mut-2", gen.New())
}
