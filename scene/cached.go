package scene

import (
	"reflect"

	kernelError "github.com/bassbeaver/glifecycle/error"
)

// Cached accessors keep an expensive lookup result in a caller-owned field. A cached value is
// reused while it is live: not nil and, for components, not owned by a destroyed object.

func GetCached[T any](o *Object, field *T) (T, error) {
	return CustomGetCached(o, field, func() (T, bool) {
		return GetComponent[T](o)
	})
}

func GetInChildrenCached[T any](o *Object, field *T) (T, error) {
	return CustomGetCached(o, field, func() (T, bool) {
		return GetComponentInChildren[T](o)
	})
}

func FindCached[T any](s *Scene, field *T) (T, error) {
	if IsLive(*field) {
		return *field, nil
	}

	found, isFound := FindObjectOfType[T](s)
	if !isFound {
		return *field, kernelError.NewMissingComponentError(typeName[T](), s.Name)
	}
	*field = found

	return found, nil
}

// CreateCached returns *field, allocating a new T first if it is nil.
func CreateCached[T any](field **T) *T {
	if nil == *field {
		*field = new(T)
	}

	return *field
}

// CustomGetCached returns *field if it is live, otherwise assigns the result of getComponent.
func CustomGetCached[T any](o *Object, field *T, getComponent func() (T, bool)) (T, error) {
	if IsLive(*field) {
		return *field, nil
	}

	return AssignComponent(o, field, getComponent)
}

// AssignComponent always overwrites *field with the result of getComponent.
func AssignComponent[T any](o *Object, field *T, getComponent func() (T, bool)) (T, error) {
	found, isFound := getComponent()
	if !isFound || !IsLive(found) {
		ownerName := ""
		if nil != o {
			ownerName = o.Name
		}
		return *field, kernelError.NewMissingComponentError(typeName[T](), ownerName)
	}
	*field = found

	return found, nil
}

// IsLive reports whether value is neither nil nor a component of a destroyed object.
func IsLive(value interface{}) bool {
	if nil == value {
		return false
	}

	reflectValue := reflect.ValueOf(value)
	switch reflectValue.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if reflectValue.IsNil() {
			return false
		}
	}

	if destroyable, ok := value.(interface{ IsDestroyed() bool }); ok {
		return !destroyable.IsDestroyed()
	}

	return true
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
