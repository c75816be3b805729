package error

type CommandNotFoundError struct {
	basicCliError
}

//--------------------

func NewCommandNotFoundError(commandName string) *CommandNotFoundError {
	return &CommandNotFoundError{
		basicCliError{
			status:  StatusCommandNotFound,
			message: "command " + commandName + " not found",
		},
	}
}
