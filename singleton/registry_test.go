package singleton

import (
	"bytes"
	"errors"
	"testing"

	kernelError "github.com/bassbeaver/glifecycle/error"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type audioManager struct {
	name string
}

func (m *audioManager) Name() string {
	return m.name
}

type scoreKeeper struct{}

type sliceScope struct {
	name    string
	objects []interface{}
}

func (s *sliceScope) ScopeName() string {
	return s.name
}

func (s *sliceScope) Candidates() []interface{} {
	return s.objects
}

func newTestRegistry(scope Scope) *Registry {
	return NewRegistry(scope, log.New(&bytes.Buffer{}))
}

func TestGetInstanceLocatesSingleCandidate(t *testing.T) {
	manager := &audioManager{name: "Audio"}
	registry := newTestRegistry(&sliceScope{name: "main", objects: []interface{}{&scoreKeeper{}, manager}})

	require.False(t, InstanceExists[*audioManager](registry))

	found, err := GetInstance[*audioManager](registry)
	require.NoError(t, err)
	assert.Same(t, manager, found)
	assert.True(t, InstanceExists[*audioManager](registry))

	again, err := GetInstance[*audioManager](registry)
	require.NoError(t, err)
	assert.Same(t, manager, again)
}

func TestGetInstanceNotFound(t *testing.T) {
	registry := newTestRegistry(&sliceScope{name: "main"})

	_, err := GetInstance[*audioManager](registry)

	var notFound *kernelError.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "main", notFound.ScopeName())
	assert.Contains(t, err.Error(), "audioManager")
}

func TestGetInstanceWithoutScope(t *testing.T) {
	registry := newTestRegistry(nil)

	_, err := GetInstance[*audioManager](registry)

	var notFound *kernelError.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestGetInstanceMultipleCandidates(t *testing.T) {
	registry := newTestRegistry(&sliceScope{
		name:    "main",
		objects: []interface{}{&audioManager{name: "AudioA"}, &audioManager{name: "AudioB"}},
	})

	_, err := GetInstance[*audioManager](registry)

	var multiple *kernelError.MultipleInstancesError
	require.True(t, errors.As(err, &multiple))
	assert.Equal(t, []string{"AudioA", "AudioB"}, multiple.Instances())
	assert.Contains(t, err.Error(), "AudioA,AudioB")
	assert.False(t, InstanceExists[*audioManager](registry))
}

func TestTryGetInstanceNeverScans(t *testing.T) {
	registry := newTestRegistry(&sliceScope{name: "main", objects: []interface{}{&audioManager{}}})

	_, exists := TryGetInstance[*audioManager](registry)
	assert.False(t, exists)

	_, exists = TryGetInstance[*scoreKeeper](newTestRegistry(nil))
	assert.False(t, exists)
}

func TestTryGetInstanceAfterRegistration(t *testing.T) {
	registry := newTestRegistry(nil)
	keeper := &scoreKeeper{}
	require.NoError(t, Register(registry, keeper))

	found, exists := TryGetInstance[*scoreKeeper](registry)
	require.True(t, exists)
	assert.Same(t, keeper, found)
}

func TestRegisterSecondInstanceFails(t *testing.T) {
	registry := newTestRegistry(nil)
	first := &audioManager{name: "First"}
	second := &audioManager{name: "Second"}

	require.NoError(t, Register(registry, first))
	require.NoError(t, Register(registry, first), "registering the same instance again is allowed")

	err := Register(registry, second)
	var multiple *kernelError.MultipleInstancesError
	require.True(t, errors.As(err, &multiple))
	assert.ElementsMatch(t, []string{"First", "Second"}, multiple.Instances())

	found, _ := TryGetInstance[*audioManager](registry)
	assert.Same(t, first, found)
}

func TestRegisterNil(t *testing.T) {
	registry := newTestRegistry(nil)

	assert.Error(t, Register[*audioManager](registry, nil))
}

func TestInterfaceSingletons(t *testing.T) {
	manager := &audioManager{name: "Audio"}
	registry := newTestRegistry(&sliceScope{name: "main", objects: []interface{}{manager, &scoreKeeper{}}})

	found, err := GetInstance[Named](registry)
	require.NoError(t, err)
	assert.Equal(t, "Audio", found.Name())
}

func TestRelease(t *testing.T) {
	registry := newTestRegistry(nil)
	manager := &audioManager{name: "Audio"}
	require.NoError(t, Register(registry, manager))

	assert.False(t, Release(registry, &audioManager{name: "Other"}))
	assert.True(t, InstanceExists[*audioManager](registry))

	assert.True(t, Release(registry, manager))
	assert.False(t, InstanceExists[*audioManager](registry))

	replacement := &audioManager{name: "Replacement"}
	require.NoError(t, Register(registry, replacement))
}

func TestReleaseInstanceClearsAllSlots(t *testing.T) {
	registry := newTestRegistry(nil)
	manager := &audioManager{name: "Audio"}
	require.NoError(t, Register(registry, manager))
	require.NoError(t, Register[Named](registry, manager))
	require.Equal(t, 2, registry.Len())

	assert.True(t, registry.ReleaseInstance(manager))
	assert.Equal(t, 0, registry.Len())
	assert.False(t, registry.ReleaseInstance(manager))
	assert.False(t, registry.ReleaseInstance(nil))
}

func TestEntries(t *testing.T) {
	registry := newTestRegistry(nil)
	require.NoError(t, Register(registry, &audioManager{name: "Audio"}))
	require.NoError(t, Register(registry, &scoreKeeper{}))

	entries := registry.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "*singleton.audioManager", entries[0].TypeName)
	assert.Equal(t, "Audio", entries[0].Instance)
	assert.Contains(t, entries[1].Instance, "*singleton.scoreKeeper@")
}

type settings struct {
	values interface{}
}

type palette struct {
	colors []string
}

func TestValueSingletonsHoldingSlices(t *testing.T) {
	registry := newTestRegistry(nil)

	require.NotPanics(t, func() {
		require.NoError(t, Register(registry, settings{values: []int{1, 2}}))
		require.NoError(t, Register(registry, settings{values: []int{1, 2}}))
	})

	multipleErr := &kernelError.MultipleInstancesError{}
	assert.True(t, errors.As(Register(registry, settings{values: []int{3}}), &multipleErr))

	assert.True(t, Release(registry, settings{values: []int{1, 2}}))
	assert.False(t, InstanceExists[settings](registry))
}

func TestUncomparableValueSingleton(t *testing.T) {
	registry := newTestRegistry(nil)
	require.NoError(t, Register(registry, palette{colors: []string{"red"}}))

	assert.True(t, registry.ReleaseInstance(palette{colors: []string{"red"}}))
	assert.Equal(t, 0, registry.Len())
}
