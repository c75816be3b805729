package error

// Exit statuses of the command line kernel
const (
	StatusCommandNotSpecified = 1
	StatusCommandNotFound     = 2
	StatusRuntime             = 3
)

// CliError is returned by commands, its status becomes the process exit code
type CliError interface {
	error
	Status() int
	Message() string
}

//--------------------

type basicCliError struct {
	status  int
	message string
}

func (e *basicCliError) Status() int {
	return e.status
}

func (e *basicCliError) Message() string {
	return e.message
}

func (e *basicCliError) Error() string {
	return e.message
}
