package event_bus

import (
	"errors"
	"reflect"
	"sync"

	kernelError "github.com/bassbeaver/glifecycle/error"
	"github.com/bassbeaver/glifecycle/event_bus/event"
	"github.com/bassbeaver/glifecycle/scene"
)

type paramEventEntry struct {
	tag           event.ParamTag
	parameterType reflect.Type
}

// EventsRegistry resolves event names, as written in configuration, to tags. Parameterized
// events also carry the type of their parameter, used to validate listeners bound by name.
type EventsRegistry struct {
	registry      map[string]event.Tag
	paramRegistry map[string]paramEventEntry
	registryMutex sync.RWMutex
}

func (r *EventsRegistry) Register(tag event.Tag) {
	r.registryMutex.Lock()
	defer r.registryMutex.Unlock()

	r.registry[tag.String()] = tag
}

// RegisterParam maps tag to the type of parameterPrototype, which should be a typed nil
func (r *EventsRegistry) RegisterParam(tag event.ParamTag, parameterPrototype interface{}) {
	r.registryMutex.Lock()
	defer r.registryMutex.Unlock()

	r.paramRegistry[tag.String()] = paramEventEntry{
		tag:           tag,
		parameterType: reflect.TypeOf(parameterPrototype),
	}
}

func (r *EventsRegistry) GetTagByName(name string) (event.Tag, error) {
	r.registryMutex.RLock()
	defer r.registryMutex.RUnlock()

	if tag, tagMapped := r.registry[name]; tagMapped {
		return tag, nil
	}

	return 0, errors.New("unknown event " + name)
}

func (r *EventsRegistry) GetParamTagByName(name string) (event.ParamTag, reflect.Type, error) {
	r.registryMutex.RLock()
	defer r.registryMutex.RUnlock()

	if entry, tagMapped := r.paramRegistry[name]; tagMapped {
		return entry.tag, entry.parameterType, nil
	}

	return 0, nil, errors.New("unknown event " + name)
}

func (r *EventsRegistry) IsParameterized(name string) bool {
	r.registryMutex.RLock()
	defer r.registryMutex.RUnlock()

	_, isParameterized := r.paramRegistry[name]

	return isParameterized
}

//--------------------

func NewRegistry() *EventsRegistry {
	return &EventsRegistry{
		registry:      make(map[string]event.Tag),
		paramRegistry: make(map[string]paramEventEntry),
	}
}

func NewDefaultRegistry() *EventsRegistry {
	r := NewRegistry()

	for _, tag := range event.Tags() {
		r.Register(tag)
	}

	r.RegisterParam(event.FrameUpdated, (*event.FrameUpdate)(nil))
	r.RegisterParam(event.ObjectSpawned, (*scene.Object)(nil))
	r.RegisterParam(event.ObjectDestroyed, (*scene.Object)(nil))
	r.RegisterParam(event.RuntimeError, (*kernelError.RuntimeError)(nil))
	r.RegisterParam(event.ApplicationTermination, (*event.ApplicationTermination)(nil))

	return r
}
