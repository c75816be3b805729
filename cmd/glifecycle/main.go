package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bassbeaver/glifecycle"
	"github.com/bassbeaver/glifecycle/cli"
)

func main() {
	configPath := flag.String("config", "config", "config file or directory")
	flag.Parse()

	lifecycle, kernelError := glifecycle.NewKernel(*configPath)
	if nil != kernelError {
		fmt.Fprintln(os.Stderr, kernelError.Error())
		os.Exit(3)
	}

	cliError := cli.NewKernel(lifecycle, os.Stdout).Run(context.Background(), flag.Args())
	if nil != cliError {
		fmt.Fprintln(os.Stderr, cliError.Message())
		os.Exit(cliError.Status())
	}
}
