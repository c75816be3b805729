package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/bassbeaver/glifecycle"
	cliKernelError "github.com/bassbeaver/glifecycle/cli/error"
)

// Kernel dispatches command line commands to a lifecycle kernel.
type Kernel struct {
	lifecycle *glifecycle.Kernel
	commands  map[string]*Command
	output    io.Writer
}

type checkReport struct {
	Scene      string      `json:"scene"`
	Objects    []string    `json:"objects"`
	Events     interface{} `json:"events"`
	Singletons interface{} `json:"singletons"`
}

func (k *Kernel) RegisterCommand(command *Command) {
	k.commands[command.Name] = command
}

func (k *Kernel) Run(ctx context.Context, args []string) cliKernelError.CliError {
	if 0 == len(args) {
		return cliKernelError.NewCommandNotSpecifiedError()
	}

	// Determine command
	commandName := args[0]
	args = args[1:]

	command, commandExists := k.commands[commandName]
	if !commandExists {
		return cliKernelError.NewCommandNotFoundError(commandName)
	}

	// Run command
	return command.Controller(ctx, args)
}

func (k *Kernel) runCommand(ctx context.Context, args []string) cliKernelError.CliError {
	if runError := k.lifecycle.Run(ctx); nil != runError {
		return cliKernelError.NewRuntimeError(runError)
	}

	return nil
}

func (k *Kernel) checkCommand(ctx context.Context, args []string) cliKernelError.CliError {
	if startError := k.lifecycle.Start(); nil != startError {
		return cliKernelError.NewRuntimeError(startError)
	}

	report := checkReport{
		Scene:      k.lifecycle.GetScene().Name,
		Objects:    make([]string, 0),
		Events:     k.lifecycle.GetEventBus().Chains(),
		Singletons: k.lifecycle.GetSingletons().Entries(),
	}
	for _, o := range k.lifecycle.GetScene().Objects() {
		report.Objects = append(report.Objects, o.String())
	}

	encoder := json.NewEncoder(k.output)
	encoder.SetIndent("", "  ")
	if encodeError := encoder.Encode(report); nil != encodeError {
		return cliKernelError.NewRuntimeError(encodeError)
	}

	return nil
}

func (k *Kernel) helpCommand(ctx context.Context, args []string) cliKernelError.CliError {
	names := make([]string, 0, len(k.commands))
	for name := range k.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(k.output, "%-10s %s\n", name, k.commands[name].Help)
	}

	return nil
}

//--------------------

func NewKernel(lifecycle *glifecycle.Kernel, output io.Writer) *Kernel {
	kernel := &Kernel{
		lifecycle: lifecycle,
		commands:  make(map[string]*Command, 0),
		output:    output,
	}

	kernel.RegisterCommand(NewCommand("run", kernel.runCommand, "start the scene and run frames until interrupted"))
	kernel.RegisterCommand(NewCommand("check", kernel.checkCommand, "start the scene and print objects, bound events and singletons"))
	kernel.RegisterCommand(NewCommand("help", kernel.helpCommand, "list commands"))

	return kernel
}
