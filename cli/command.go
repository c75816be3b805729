package cli

import (
	"context"

	cliKernelError "github.com/bassbeaver/glifecycle/cli/error"
)

type Controller func(ctx context.Context, args []string) cliKernelError.CliError

type Command struct {
	Name       string
	Controller Controller
	Help       string
}

func NewCommand(name string, controller Controller, help string) *Command {
	return &Command{
		Name:       name,
		Controller: controller,
		Help:       help,
	}
}
