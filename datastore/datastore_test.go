package datastore

import (
	"errors"
	"testing"

	kernelError "github.com/bassbeaver/glifecycle/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkpoint struct {
	Level int
}

func TestRememberAndRecall(t *testing.T) {
	s := NewStore()
	Remember(s, "score", 42)
	Remember(s, "checkpoint", &checkpoint{Level: 3})

	score, err := Recall[int](s, "score")
	require.NoError(t, err)
	assert.Equal(t, 42, score)

	saved, ok := TryRecall[*checkpoint](s, "checkpoint")
	require.True(t, ok)
	assert.Equal(t, 3, saved.Level)

	assert.Equal(t, []string{"checkpoint", "score"}, s.Names())
	assert.Equal(t, "int", s.Types()["score"])
}

func TestRememberReplaces(t *testing.T) {
	s := NewStore()
	Remember(s, "score", 1)
	Remember(s, "score", "one")

	_, ok := TryRecall[int](s, "score")
	assert.False(t, ok)

	value, ok := TryRecall[string](s, "score")
	require.True(t, ok)
	assert.Equal(t, "one", value)
}

func TestRecallMissingOrMistyped(t *testing.T) {
	s := NewStore()
	Remember(s, "score", 42)

	_, err := Recall[string](s, "score")
	var recallError *kernelError.CouldNotRecallError
	require.True(t, errors.As(err, &recallError))
	assert.Equal(t, "score", recallError.Name())
	assert.EqualError(t, err, `data "score" of type string could not be recalled`)

	_, err = Recall[int](s, "lives")
	assert.Error(t, err)
}

func TestRememberNilInterface(t *testing.T) {
	s := NewStore()
	var noError error
	Remember(s, "lastError", noError)

	recalled, ok := TryRecall[error](s, "lastError")
	assert.True(t, ok)
	assert.Nil(t, recalled)
}

func TestForget(t *testing.T) {
	s := NewStore()
	Remember(s, "score", 42)

	s.Forget("score")
	s.Forget("never stored")

	_, ok := TryRecall[int](s, "score")
	assert.False(t, ok)
	assert.Empty(t, s.Names())
}
