package error

import "fmt"

type CouldNotRecallError struct {
	name     string
	typeName string
}

func (e *CouldNotRecallError) Error() string {
	return fmt.Sprintf("data %q of type %s could not be recalled", e.name, e.typeName)
}

func (e *CouldNotRecallError) Name() string {
	return e.name
}

//--------------------

func NewCouldNotRecallError(name, typeName string) *CouldNotRecallError {
	return &CouldNotRecallError{
		name:     name,
		typeName: typeName,
	}
}
