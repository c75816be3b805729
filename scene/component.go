package scene

import (
	"fmt"
	"time"
)

type Component interface {
	Start()
	Update(deltaTime time.Duration)
	SetObject(o *Object)
	GetObject() *Object
}

// Destroyable components are notified when their object is destroyed.
type Destroyable interface {
	OnDestroy()
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	object *Object
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime time.Duration) {}

func (b *BaseComponent) SetObject(o *Object) {
	b.object = o
}

func (b *BaseComponent) GetObject() *Object {
	return b.object
}

// Name is the name of the owning object, used in diagnostics.
func (b *BaseComponent) Name() string {
	if nil == b.object {
		return fmt.Sprintf("detached@%p", b)
	}

	return b.object.Name
}

// IsDestroyed reports whether the owning object has been destroyed.
func (b *BaseComponent) IsDestroyed() bool {
	return nil != b.object && b.object.IsDestroyed()
}
