package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := NotFoundf("location %s not found", "loc-1").WithMeta("location_id", "loc-1")

	wrapped := Wrap(base, "failed to resolve destination")

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, "failed to resolve destination: location loc-1 not found", wrapped.Error())
	assert.Equal(t, "loc-1", wrapped.Meta["location_id"])
	assert.True(t, errors.Is(wrapped, base))
}

func TestWrap_PlainErrorIsUnknown(t *testing.T) {
	wrapped := Wrap(errors.New("dial tcp: refused"), "failed to load entry")

	assert.Equal(t, CodeUnknown, GetCode(wrapped))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestWrapWithCode(t *testing.T) {
	wrapped := WrapWithCode(errors.New("bad json"), CodeDecode, "failed to decode feature")

	assert.True(t, IsDecode(wrapped))
	assert.False(t, IsInvalidArgument(wrapped))
}

func TestConflict_SurvivesWrap(t *testing.T) {
	err := Wrap(Conflictf("ledger entry %s changed", "character:char-1:recall"), "failed to consume")

	assert.True(t, IsConflict(err))
	assert.Equal(t, CodeConflict, GetCode(err))
	assert.False(t, IsNotFound(err))
}
