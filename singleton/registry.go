package singleton

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	kernelError "github.com/bassbeaver/glifecycle/error"
	"github.com/charmbracelet/log"
)

// Scope is the set of live objects a Registry scans when a type has not been registered yet.
type Scope interface {
	ScopeName() string
	Candidates() []interface{}
}

// Named instances are listed by name in resolution errors.
type Named interface {
	Name() string
}

type Entry struct {
	TypeName string `json:"type"`
	Instance string `json:"instance"`
}

// Registry keeps at most one instance per type. Slots are filled either explicitly with
// Register or lazily by GetInstance scanning the Scope. The registry can not observe
// destruction: owners call Release (or ReleaseInstance) from their teardown.
type Registry struct {
	scope         Scope
	instances     map[reflect.Type]interface{}
	instancesLock sync.RWMutex
	logger        *log.Logger
}

func (r *Registry) Scope() Scope {
	return r.scope
}

func (r *Registry) scopeName() string {
	if nil == r.scope {
		return ""
	}

	return r.scope.ScopeName()
}

// ReleaseInstance clears every slot currently held by instance.
func (r *Registry) ReleaseInstance(instance interface{}) bool {
	if nil == instance {
		return false
	}

	r.instancesLock.Lock()
	defer r.instancesLock.Unlock()

	released := false
	for instanceType, registered := range r.instances {
		if sameInstance(registered, instance) {
			delete(r.instances, instanceType)
			released = true
			r.logger.Debug("singleton released", "type", instanceType.String(), "instance", describe(instance))
		}
	}

	return released
}

func (r *Registry) Entries() []Entry {
	r.instancesLock.RLock()
	defer r.instancesLock.RUnlock()

	entries := make([]Entry, 0, len(r.instances))
	for instanceType, instance := range r.instances {
		entries = append(entries, Entry{TypeName: instanceType.String(), Instance: describe(instance)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TypeName < entries[j].TypeName
	})

	return entries
}

func (r *Registry) Len() int {
	r.instancesLock.RLock()
	defer r.instancesLock.RUnlock()

	return len(r.instances)
}

//--------------------

// NewRegistry creates a registry over scope. scope may be nil, in that case only explicitly
// registered instances are resolvable.
func NewRegistry(scope Scope, logger *log.Logger) *Registry {
	if nil == logger {
		logger = log.Default()
	}

	return &Registry{
		scope:     scope,
		instances: make(map[reflect.Type]interface{}),
		logger:    logger,
	}
}

// Register binds instance as the singleton of T. Registering a second, different instance
// while the first is still registered is a setup defect.
func Register[T any](r *Registry, instance T) error {
	instanceType := typeOf[T]()
	if isNil(instance) {
		return fmt.Errorf("can not register nil instance as singleton %s", instanceType.String())
	}

	r.instancesLock.Lock()
	defer r.instancesLock.Unlock()

	if registered, isRegistered := r.instances[instanceType]; isRegistered && !sameInstance(registered, instance) {
		return kernelError.NewMultipleInstancesError(
			instanceType.String(),
			r.scopeName(),
			describe(instance),
			describe(registered),
		)
	}

	r.instances[instanceType] = instance

	return nil
}

// GetInstance returns the registered instance of T, locating it in the scope on first access.
func GetInstance[T any](r *Registry) (T, error) {
	instanceType := typeOf[T]()

	r.instancesLock.Lock()
	defer r.instancesLock.Unlock()

	if registered, isRegistered := r.instances[instanceType]; isRegistered {
		return registered.(T), nil
	}

	var zero T
	if nil == r.scope {
		return zero, kernelError.NewNotFoundError(instanceType.String(), "")
	}

	found := make([]T, 0, 1)
	for _, candidate := range r.scope.Candidates() {
		if typedCandidate, isT := candidate.(T); isT {
			found = append(found, typedCandidate)
		}
	}

	switch len(found) {
	case 0:
		return zero, kernelError.NewNotFoundError(instanceType.String(), r.scope.ScopeName())
	case 1:
		r.instances[instanceType] = found[0]
		r.logger.Debug("singleton located", "type", instanceType.String(), "instance", describe(found[0]))

		return found[0], nil
	default:
		names := make([]string, 0, len(found))
		for _, instance := range found {
			names = append(names, describe(instance))
		}

		return zero, kernelError.NewMultipleInstancesError(instanceType.String(), r.scope.ScopeName(), names...)
	}
}

// TryGetInstance returns the registered instance of T if there is one. It never scans the
// scope and never fails, which makes it safe during teardown.
func TryGetInstance[T any](r *Registry) (T, bool) {
	r.instancesLock.RLock()
	defer r.instancesLock.RUnlock()

	registered, isRegistered := r.instances[typeOf[T]()]
	if !isRegistered {
		var zero T
		return zero, false
	}

	return registered.(T), true
}

func InstanceExists[T any](r *Registry) bool {
	r.instancesLock.RLock()
	defer r.instancesLock.RUnlock()

	_, isRegistered := r.instances[typeOf[T]()]

	return isRegistered
}

// Release clears the slot of T if it is held by instance.
func Release[T any](r *Registry, instance T) bool {
	instanceType := typeOf[T]()

	r.instancesLock.Lock()
	defer r.instancesLock.Unlock()

	registered, isRegistered := r.instances[instanceType]
	if !isRegistered || !sameInstance(registered, instance) {
		return false
	}
	delete(r.instances, instanceType)

	return true
}

//--------------------

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func isNil(value interface{}) bool {
	if nil == value {
		return true
	}

	reflectValue := reflect.ValueOf(value)
	switch reflectValue.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return reflectValue.IsNil()
	}

	return false
}

func sameInstance(a, b interface{}) bool {
	if nil == a || nil == b {
		return nil == a && nil == b
	}

	aType, bType := reflect.TypeOf(a), reflect.TypeOf(b)
	if aType != bType {
		return false
	}

	switch aType.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}

	if !aType.Comparable() {
		return reflect.DeepEqual(a, b)
	}

	return equalValues(a, b)
}

// equalValues falls back to a deep comparison when == panics on an uncomparable value held
// in an interface field.
func equalValues(a, b interface{}) (equal bool) {
	defer func() {
		if nil != recover() {
			equal = reflect.DeepEqual(a, b)
		}
	}()

	return a == b
}

func describe(instance interface{}) string {
	if named, isNamed := instance.(Named); isNamed {
		return named.Name()
	}

	if reflect.Ptr == reflect.ValueOf(instance).Kind() {
		return fmt.Sprintf("%T@%p", instance, instance)
	}

	return fmt.Sprintf("%T", instance)
}
