package datastore

import (
	"reflect"
	"sort"
	"sync"

	kernelError "github.com/bassbeaver/glifecycle/error"
)

type storedValue struct {
	value     interface{}
	valueType reflect.Type
}

// Store keeps named values of arbitrary types for the lifetime of the application.
type Store struct {
	data     map[string]storedValue
	dataLock sync.RWMutex
}

func (s *Store) Forget(name string) {
	s.dataLock.Lock()
	defer s.dataLock.Unlock()

	delete(s.data, name)
}

func (s *Store) Names() []string {
	s.dataLock.RLock()
	defer s.dataLock.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Types maps every stored name to the type it was remembered as
func (s *Store) Types() map[string]string {
	s.dataLock.RLock()
	defer s.dataLock.RUnlock()

	result := make(map[string]string, len(s.data))
	for name, stored := range s.data {
		result[name] = stored.valueType.String()
	}

	return result
}

//--------------------

func NewStore() *Store {
	return &Store{
		data: make(map[string]storedValue),
	}
}

// Remember stores value under name, replacing whatever was stored there.
func Remember[T any](s *Store, name string, value T) {
	s.dataLock.Lock()
	defer s.dataLock.Unlock()

	s.data[name] = storedValue{
		value:     value,
		valueType: reflect.TypeOf((*T)(nil)).Elem(),
	}
}

// TryRecall returns the value stored under name if it was remembered as a T.
func TryRecall[T any](s *Store, name string) (T, bool) {
	s.dataLock.RLock()
	defer s.dataLock.RUnlock()

	var zero T
	stored, isStored := s.data[name]
	if !isStored || stored.valueType != reflect.TypeOf((*T)(nil)).Elem() {
		return zero, false
	}

	if nil == stored.value {
		return zero, true
	}

	return stored.value.(T), true
}

func Recall[T any](s *Store, name string) (T, error) {
	value, isRecalled := TryRecall[T](s, name)
	if !isRecalled {
		return value, kernelError.NewCouldNotRecallError(name, reflect.TypeOf((*T)(nil)).Elem().String())
	}

	return value, nil
}
