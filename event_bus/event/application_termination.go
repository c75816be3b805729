package event

// ApplicationTermination is the parameter of the ApplicationTermination event. Listeners may
// append errors met while shutting down.
type ApplicationTermination struct {
	Errors *[]error
}

func (e *ApplicationTermination) AddError(err error) {
	if nil == err {
		return
	}

	*e.Errors = append(*e.Errors, err)
}

//--------------------

func NewApplicationTermination(terminationErrors *[]error) *ApplicationTermination {
	return &ApplicationTermination{
		Errors: terminationErrors,
	}
}
