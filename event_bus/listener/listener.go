package listener

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Listener is a parameterless handler bound to an owner. The label names the handler in
// diagnostics, it defaults to the function name.
type Listener struct {
	owner    interface{}
	label    string
	fn       func()
	identity uintptr
}

func (l Listener) Owner() interface{} {
	return l.owner
}

func (l Listener) Label() string {
	return l.label
}

func (l Listener) Call() {
	l.fn()
}

// Matches reports whether l and other were built from the same owner, label and function.
func (l Listener) Matches(other Listener) bool {
	return l.identity == other.identity && l.label == other.label && sameOwner(l.owner, other.owner)
}

func (l Listener) OwnedBy(owner interface{}) bool {
	return sameOwner(l.owner, owner)
}

func (l Listener) IsDangling() bool {
	return isDestroyed(l.owner)
}

//--------------------

// ParamListener is a handler of single parameter events.
type ParamListener struct {
	owner    interface{}
	label    string
	fn       func(interface{})
	identity uintptr
}

func (l ParamListener) Owner() interface{} {
	return l.owner
}

func (l ParamListener) Label() string {
	return l.label
}

func (l ParamListener) Call(parameter interface{}) {
	l.fn(parameter)
}

func (l ParamListener) Matches(other ParamListener) bool {
	return l.identity == other.identity && l.label == other.label && sameOwner(l.owner, other.owner)
}

func (l ParamListener) OwnedBy(owner interface{}) bool {
	return sameOwner(l.owner, owner)
}

func (l ParamListener) IsDangling() bool {
	return isDestroyed(l.owner)
}

//--------------------

func New(owner interface{}, label string, fn func()) Listener {
	identity := funcIdentity(fn)

	return Listener{
		owner:    owner,
		label:    labelOrName(label, identity),
		fn:       fn,
		identity: identity,
	}
}

func NewParam(owner interface{}, label string, fn func(interface{})) ParamListener {
	identity := funcIdentity(fn)

	return ParamListener{
		owner:    owner,
		label:    labelOrName(label, identity),
		fn:       fn,
		identity: identity,
	}
}

// Typed adapts a handler of a concrete parameter type. Parameters of another type are not
// delivered to fn.
func Typed[P any](owner interface{}, label string, fn func(P)) ParamListener {
	identity := funcIdentity(fn)

	return ParamListener{
		owner: owner,
		label: labelOrName(label, identity),
		fn: func(parameter interface{}) {
			if typedParameter, isP := parameter.(P); isP {
				fn(typedParameter)
			}
		},
		identity: identity,
	}
}

// FromMethod builds a Listener from a func() value obtained by reflection.
func FromMethod(owner interface{}, label string, method interface{}) (Listener, error) {
	fn, isFunc := method.(func())
	if !isFunc {
		return Listener{}, errors.New(
			fmt.Sprintf("%s is not a parameterless event listener", typeString(method)),
		)
	}

	return New(owner, label, fn), nil
}

// ParamFromMethod builds a ParamListener from a one-argument func value obtained by
// reflection. parameterType values must be assignable to the argument.
func ParamFromMethod(owner interface{}, label string, method interface{}, parameterType reflect.Type) (ParamListener, error) {
	if !IsListenerForParameter(method, parameterType) {
		return ParamListener{}, errors.New(
			fmt.Sprintf("%s is not event listener for %s", typeString(method), parameterType.String()),
		)
	}

	methodValue := reflect.ValueOf(method)
	argumentType := methodValue.Type().In(0)
	identity := funcIdentity(method)

	return ParamListener{
		owner: owner,
		label: labelOrName(label, identity),
		fn: func(parameter interface{}) {
			argument := reflect.Zero(argumentType)
			if nil != parameter {
				argument = reflect.ValueOf(parameter)
			}
			if !argument.Type().AssignableTo(argumentType) {
				return
			}
			methodValue.Call([]reflect.Value{argument})
		},
		identity: identity,
	}, nil
}

// listener - should be a function with one argument
// parameterType - type of the values the event carries
func IsListenerForParameter(listener interface{}, parameterType reflect.Type) bool {
	if nil == listener || nil == parameterType {
		return false
	}

	listenerType := reflect.TypeOf(listener)
	if reflect.Func != listenerType.Kind() || listenerType.NumIn() != 1 || listenerType.NumOut() != 0 {
		return false
	}

	return parameterType.AssignableTo(listenerType.In(0))
}

//--------------------

func funcIdentity(fn interface{}) uintptr {
	if nil == fn {
		return 0
	}

	fnValue := reflect.ValueOf(fn)
	if reflect.Func != fnValue.Kind() || fnValue.IsNil() {
		return 0
	}

	return fnValue.Pointer()
}

func labelOrName(label string, identity uintptr) string {
	if "" != label || 0 == identity {
		return label
	}

	if fn := runtime.FuncForPC(identity); nil != fn {
		name := fn.Name()
		return name[strings.LastIndex(name, "/")+1:]
	}

	return ""
}

func typeString(value interface{}) string {
	if nil == value {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}

func sameOwner(a, b interface{}) bool {
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

// equalValues compares comparable values. A comparable struct may still hold an uncomparable
// value in an interface field, == panics then and the values are compared deeply.
func equalValues(a, b interface{}) (equal bool) {
	defer func() {
		if nil != recover() {
			equal = reflect.DeepEqual(a, b)
		}
	}()

	return a == b
}

func isDestroyed(owner interface{}) bool {
	destroyable, isDestroyable := owner.(interface{ IsDestroyed() bool })

	return isDestroyable && destroyable.IsDestroyed()
}
