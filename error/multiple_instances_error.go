package error

import (
	"fmt"
	"strings"
)

// MultipleInstancesError means the singleton setup is ambiguous. It can not be resolved
// programmatically.
type MultipleInstancesError struct {
	typeName  string
	scopeName string
	instances []string
}

func (e *MultipleInstancesError) Error() string {
	return fmt.Sprintf(
		"%s is a singleton, but multiple copies exist in scope %q: %s",
		e.typeName,
		e.scopeName,
		strings.Join(e.instances, ","),
	)
}

func (e *MultipleInstancesError) TypeName() string {
	return e.typeName
}

func (e *MultipleInstancesError) Instances() []string {
	result := make([]string, len(e.instances))
	copy(result, e.instances)

	return result
}

//--------------------

func NewMultipleInstancesError(typeName, scopeName string, instances ...string) *MultipleInstancesError {
	return &MultipleInstancesError{
		typeName:  typeName,
		scopeName: scopeName,
		instances: instances,
	}
}
