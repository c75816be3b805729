package error

import "fmt"

// NotFoundError is returned when a required singleton has no live candidate in scope.
type NotFoundError struct {
	typeName  string
	scopeName string
}

func (e *NotFoundError) Error() string {
	if "" == e.scopeName {
		return fmt.Sprintf("%s is required, but no instance is registered", e.typeName)
	}

	return fmt.Sprintf("%s is required, but does not exist in (or has not been registered in) scope %q", e.typeName, e.scopeName)
}

func (e *NotFoundError) TypeName() string {
	return e.typeName
}

func (e *NotFoundError) ScopeName() string {
	return e.scopeName
}

//--------------------

func NewNotFoundError(typeName, scopeName string) *NotFoundError {
	return &NotFoundError{
		typeName:  typeName,
		scopeName: scopeName,
	}
}
