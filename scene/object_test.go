package scene

import (
	"errors"
	"testing"

	kernelError "github.com/bassbeaver/glifecycle/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weapon struct {
	BaseComponent
	damage int
}

func TestNewObject(t *testing.T) {
	first := NewObject("First")
	second := NewObject("Second")

	assert.Equal(t, "First", first.Name)
	assert.True(t, first.Active)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Contains(t, first.String(), "First#")
}

func TestObjectHasTag(t *testing.T) {
	obj := NewObject("Test")
	obj.Tags = []string{"enemy", "ai"}

	assert.True(t, obj.HasTag("enemy"))
	assert.False(t, obj.HasTag("player"))
	assert.False(t, NewObject("Untagged").HasTag("anything"))
}

func TestObjectReparent(t *testing.T) {
	first := NewObject("First")
	second := NewObject("Second")
	child := NewObject("Child")

	first.AddChild(child)
	second.AddChild(child)

	assert.Empty(t, first.Children)
	assert.Equal(t, []*Object{child}, second.Children)
	assert.Same(t, second, child.Parent)

	second.RemoveChild(child)
	assert.Nil(t, child.Parent)
}

func TestGetComponent(t *testing.T) {
	w := &weapon{damage: 3}
	obj := NewObject("Player", &marker{}, w)

	found, ok := GetComponent[*weapon](obj)
	require.True(t, ok)
	assert.Same(t, w, found)
	assert.Same(t, obj, w.GetObject())

	_, ok = GetComponent[*counter](obj)
	assert.False(t, ok)

	_, ok = GetComponent[*weapon](nil)
	assert.False(t, ok)

	assert.Len(t, GetComponents[Component](obj), 2)
}

func TestGetComponentInChildren(t *testing.T) {
	w := &weapon{}
	root := NewObject("Root")
	hand := NewObject("Hand")
	sword := NewObject("Sword", w)
	root.AddChild(hand)
	hand.AddChild(sword)
	root.AddComponent(&weapon{damage: 1})

	found, ok := GetComponentInChildren[*weapon](hand)
	require.True(t, ok)
	assert.Same(t, w, found)

	assert.Len(t, GetComponentsInChildren[*weapon](root), 2)
}

func TestGetCached(t *testing.T) {
	w := &weapon{damage: 5}
	obj := NewObject("Player", w)

	var cachedWeapon *weapon
	found, err := GetCached(obj, &cachedWeapon)
	require.NoError(t, err)
	assert.Same(t, w, found)
	assert.Same(t, w, cachedWeapon)

	other := NewObject("Other")
	found, err = GetCached(other, &cachedWeapon)
	require.NoError(t, err, "cached value is reused while live")
	assert.Same(t, w, found)
}

func TestGetCachedMissing(t *testing.T) {
	var cachedWeapon *weapon
	_, err := GetCached(NewObject("Empty"), &cachedWeapon)

	var missing *kernelError.MissingComponentError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, err.Error(), "in Empty")
	assert.Nil(t, cachedWeapon)
}

func TestCachedValueOfDestroyedObjectIsResolvedAgain(t *testing.T) {
	s := NewScene("Test")
	first := &weapon{damage: 1}
	s.Spawn(NewObject("First", first))

	var cachedWeapon *weapon
	found, err := FindCached(s, &cachedWeapon)
	require.NoError(t, err)
	assert.Same(t, first, found)

	s.Destroy(s.FindByName("First"))
	_, err = FindCached(s, &cachedWeapon)
	assert.Error(t, err)

	second := &weapon{damage: 2}
	s.Spawn(NewObject("Second", second))
	found, err = FindCached(s, &cachedWeapon)
	require.NoError(t, err)
	assert.Same(t, second, found)
}

func TestGetInChildrenCached(t *testing.T) {
	w := &weapon{}
	root := NewObject("Root")
	root.AddChild(NewObject("Sword", w))

	var cachedWeapon *weapon
	found, err := GetInChildrenCached(root, &cachedWeapon)
	require.NoError(t, err)
	assert.Same(t, w, found)
}

func TestCreateCached(t *testing.T) {
	var settings *struct{ Volume int }

	created := CreateCached(&settings)
	created.Volume = 7

	assert.Same(t, created, CreateCached(&settings))
	assert.Equal(t, 7, settings.Volume)
}

func TestAssignComponentOverwrites(t *testing.T) {
	first := &weapon{damage: 1}
	second := &weapon{damage: 2}
	obj := NewObject("Player", first)

	cachedWeapon := first
	found, err := AssignComponent(obj, &cachedWeapon, func() (*weapon, bool) {
		return second, true
	})
	require.NoError(t, err)
	assert.Same(t, second, found)
	assert.Same(t, second, cachedWeapon)

	_, err = AssignComponent(obj, &cachedWeapon, func() (*weapon, bool) {
		return nil, true
	})
	assert.Error(t, err)
	assert.Same(t, second, cachedWeapon)
}

func TestIsLive(t *testing.T) {
	var nilWeapon *weapon
	assert.False(t, IsLive(nil))
	assert.False(t, IsLive(nilWeapon))
	assert.True(t, IsLive(&weapon{}))
	assert.True(t, IsLive(3))
}
