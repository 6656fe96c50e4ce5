package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"myworld/backend/internal/cli"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	env := cli.NewEnv()
	env.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	return cli.NewRootCommand(env, version).Execute()
}
