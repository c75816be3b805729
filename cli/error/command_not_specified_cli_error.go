package error

type CommandNotSpecifiedError struct {
	basicCliError
}

//--------------------

func NewCommandNotSpecifiedError() *CommandNotSpecifiedError {
	return &CommandNotSpecifiedError{
		basicCliError{
			status:  StatusCommandNotSpecified,
			message: "command not specified",
		},
	}
}
