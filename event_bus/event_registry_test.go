package event_bus

import (
	"reflect"
	"testing"

	"github.com/bassbeaver/glifecycle/event_bus/event"
	"github.com/bassbeaver/glifecycle/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryKnowsEveryTag(t *testing.T) {
	r := NewDefaultRegistry()

	for _, tag := range event.Tags() {
		found, err := r.GetTagByName(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, found)
		assert.False(t, r.IsParameterized(tag.String()))
	}

	for _, tag := range event.ParamTags() {
		found, parameterType, err := r.GetParamTagByName(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, found)
		assert.NotNil(t, parameterType)
		assert.True(t, r.IsParameterized(tag.String()))
	}
}

func TestRegistryParameterTypes(t *testing.T) {
	r := NewDefaultRegistry()

	_, parameterType, err := r.GetParamTagByName("ObjectDestroyed")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf((*scene.Object)(nil)), parameterType)
}

func TestRegistryUnknownEvent(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.GetTagByName("EnterNewScene")
	assert.EqualError(t, err, "unknown event EnterNewScene")

	_, _, err = r.GetParamTagByName("ApplicationLaunched")
	assert.Error(t, err)
}
