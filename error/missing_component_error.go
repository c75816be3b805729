package error

import "fmt"

type MissingComponentError struct {
	typeName  string
	ownerName string
}

func (e *MissingComponentError) Error() string {
	if "" == e.ownerName {
		return fmt.Sprintf("component %s is null", e.typeName)
	}

	return fmt.Sprintf("component %s is null in %s", e.typeName, e.ownerName)
}

func (e *MissingComponentError) TypeName() string {
	return e.typeName
}

//--------------------

func NewMissingComponentError(typeName, ownerName string) *MissingComponentError {
	return &MissingComponentError{
		typeName:  typeName,
		ownerName: ownerName,
	}
}
