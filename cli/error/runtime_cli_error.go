package error

// RuntimeError reports a failure of the lifecycle kernel while a command ran
type RuntimeError struct {
	basicCliError
}

//--------------------

func NewRuntimeError(cause error) *RuntimeError {
	return &RuntimeError{
		basicCliError{
			status:  StatusRuntime,
			message: cause.Error(),
		},
	}
}
