package scene

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type DestroyHook func(o *Object)

type Scene struct {
	Name         string
	objects      []*Object
	byID         map[uuid.UUID]*Object
	destroyHooks []DestroyHook
	started      bool
	lock         sync.RWMutex
}

// Spawn adds o and all of its children to the scene. Objects spawned into a started scene
// are started immediately.
func (s *Scene) Spawn(o *Object) {
	s.lock.Lock()
	spawned := s.addLocked(o, make([]*Object, 0))
	started := s.started
	s.lock.Unlock()

	if started {
		for _, spawnedObject := range spawned {
			spawnedObject.Start()
		}
	}
}

func (s *Scene) addLocked(o *Object, spawned []*Object) []*Object {
	if _, exists := s.byID[o.ID]; !exists && !o.destroyed {
		o.Scene = s
		s.objects = append(s.objects, o)
		s.byID[o.ID] = o
		spawned = append(spawned, o)
	}
	for _, child := range o.Children {
		spawned = s.addLocked(child, spawned)
	}

	return spawned
}

// Destroy removes o and its descendants from the scene. Components implementing Destroyable
// are notified first, then every destroy hook runs once per destroyed object.
func (s *Scene) Destroy(o *Object) {
	s.lock.Lock()
	destroyed := s.removeLocked(o, make([]*Object, 0))
	hooks := make([]DestroyHook, len(s.destroyHooks))
	copy(hooks, s.destroyHooks)
	s.lock.Unlock()

	for _, destroyedObject := range destroyed {
		for _, c := range destroyedObject.components {
			if destroyable, isDestroyable := c.(Destroyable); isDestroyable {
				destroyable.OnDestroy()
			}
		}
	}

	for _, destroyedObject := range destroyed {
		for _, hook := range hooks {
			hook(destroyedObject)
		}
	}
}

func (s *Scene) removeLocked(o *Object, destroyed []*Object) []*Object {
	for _, child := range o.Children {
		destroyed = s.removeLocked(child, destroyed)
	}
	if o.destroyed {
		return destroyed
	}

	o.destroyed = true
	delete(s.byID, o.ID)
	for i, obj := range s.objects {
		if obj == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}

	return append(destroyed, o)
}

// DestroyAll destroys every live object, used at teardown
func (s *Scene) DestroyAll() {
	for _, o := range s.Objects() {
		if nil == o.Parent {
			s.Destroy(o)
		}
	}
	for _, o := range s.Objects() {
		s.Destroy(o)
	}
}

func (s *Scene) OnDestroy(hook DestroyHook) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.destroyHooks = append(s.destroyHooks, hook)
}

func (s *Scene) Objects() []*Object {
	s.lock.RLock()
	defer s.lock.RUnlock()

	result := make([]*Object, len(s.objects))
	copy(result, s.objects)

	return result
}

func (s *Scene) FindByID(id uuid.UUID) *Object {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.byID[id]
}

func (s *Scene) FindByName(name string) *Object {
	for _, o := range s.Objects() {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*Object {
	result := make([]*Object, 0)
	for _, o := range s.Objects() {
		if o.HasTag(tag) {
			result = append(result, o)
		}
	}
	return result
}

func (s *Scene) Start() {
	s.lock.Lock()
	s.started = true
	s.lock.Unlock()

	for _, o := range s.Objects() {
		o.Start()
	}
}

func (s *Scene) Update(deltaTime time.Duration) {
	for _, o := range s.Objects() {
		o.Update(deltaTime)
	}
}

func (s *Scene) ScopeName() string {
	return s.Name
}

// Candidates lists the components of all live objects.
func (s *Scene) Candidates() []interface{} {
	result := make([]interface{}, 0)
	for _, o := range s.Objects() {
		for _, c := range o.components {
			result = append(result, c)
		}
	}

	return result
}

//--------------------

func NewScene(name string) *Scene {
	return &Scene{
		Name:         name,
		objects:      make([]*Object, 0),
		byID:         make(map[uuid.UUID]*Object),
		destroyHooks: make([]DestroyHook, 0),
	}
}

// FindObjectsOfType returns every component of a live object in s assignable to T.
func FindObjectsOfType[T any](s *Scene) []T {
	result := make([]T, 0)
	for _, candidate := range s.Candidates() {
		if typed, ok := candidate.(T); ok {
			result = append(result, typed)
		}
	}

	return result
}

func FindObjectOfType[T any](s *Scene) (T, bool) {
	found := FindObjectsOfType[T](s)
	if 0 == len(found) {
		var zero T
		return zero, false
	}

	return found[0], true
}
