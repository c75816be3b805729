package scene

import (
	"time"

	"github.com/google/uuid"
)

type Object struct {
	ID         uuid.UUID
	Name       string
	Tags       []string
	Active     bool
	Scene      *Scene
	Parent     *Object
	Children   []*Object
	components []Component
	started    bool
	destroyed  bool
}

func (o *Object) AddComponent(c Component) {
	c.SetObject(o)
	o.components = append(o.components, c)

	if o.started {
		c.Start()
	}
}

func (o *Object) Components() []Component {
	return o.components
}

func (o *Object) Start() {
	if o.started || o.destroyed {
		return
	}
	for _, c := range o.components {
		c.Start()
	}
	o.started = true
}

func (o *Object) Update(deltaTime time.Duration) {
	if !o.Active || o.destroyed {
		return
	}
	for _, c := range o.components {
		c.Update(deltaTime)
	}
}

func (o *Object) IsDestroyed() bool {
	return o.destroyed
}

func (o *Object) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (o *Object) AddChild(child *Object) {
	if nil != child.Parent {
		child.Parent.RemoveChild(child)
	}
	child.Parent = o
	o.Children = append(o.Children, child)
}

func (o *Object) RemoveChild(child *Object) {
	for i, c := range o.Children {
		if c == child {
			o.Children = append(o.Children[:i], o.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// String implements fmt.Stringer, objects are named in logs by name and short id
func (o *Object) String() string {
	return o.Name + "#" + o.ID.String()[:8]
}

//--------------------

func NewObject(name string, components ...Component) *Object {
	o := &Object{
		ID:         uuid.New(),
		Name:       name,
		Active:     true,
		Children:   make([]*Object, 0),
		components: make([]Component, 0, len(components)),
	}

	for _, c := range components {
		o.AddComponent(c)
	}

	return o
}

// GetComponent returns the first component of o assignable to T.
func GetComponent[T any](o *Object) (T, bool) {
	var zero T
	if nil == o {
		return zero, false
	}
	for _, c := range o.components {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	return zero, false
}

func GetComponents[T any](o *Object) []T {
	result := make([]T, 0)
	if nil == o {
		return result
	}
	for _, c := range o.components {
		if typed, ok := c.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

// GetComponentInChildren searches o and then its descendants depth first.
func GetComponentInChildren[T any](o *Object) (T, bool) {
	if found, ok := GetComponent[T](o); ok {
		return found, true
	}
	if nil != o {
		for _, child := range o.Children {
			if found, ok := GetComponentInChildren[T](child); ok {
				return found, true
			}
		}
	}

	var zero T
	return zero, false
}

func GetComponentsInChildren[T any](o *Object) []T {
	result := GetComponents[T](o)
	if nil != o {
		for _, child := range o.Children {
			result = append(result, GetComponentsInChildren[T](child)...)
		}
	}
	return result
}
