package error

import "fmt"

// RuntimeError holds a value recovered from a panic together with the stack trace
type RuntimeError struct {
	Error interface{}
	Trace []byte
}

func (e *RuntimeError) String() string {
	return fmt.Sprintf("%+v\n%s", e.Error, e.Trace)
}

//--------------------

func NewRuntimeError(errorObj interface{}, trace []byte) *RuntimeError {
	if nil == trace {
		trace = make([]byte, 0)
	}

	return &RuntimeError{
		Error: errorObj,
		Trace: trace,
	}
}
