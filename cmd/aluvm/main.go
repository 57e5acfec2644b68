package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"aluvm/internal/aluvm"
)

var (
	verboseFlag = cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "trace decode/dispatch/jump events to stdout",
	}
	replFlag = cli.BoolFlag{
		Name:  "repl",
		Usage: "step through the program interactively instead of running it straight through",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "aluvm"
	app.Usage = "run Alu bytecode programs"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{verboseFlag, replFlag}
	app.Action = runAction
	app.Commands = []cli.Command{runCommand}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var runCommand = cli.Command{
	Action:    runAction,
	Name:      "run",
	Usage:     "run a bytecode file",
	ArgsUsage: "<file>",
	Flags:     []cli.Flag{verboseFlag, replFlag},
}

func runAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("Usage: aluvm run [--verbose] [--repl] <file>", 1)
	}
	path := ctx.Args().Get(0)

	var obs aluvm.Observer = aluvm.NopObserver{}
	if ctx.Bool("verbose") {
		obs = newColorObserver()
	}

	vm := aluvm.NewState(aluvm.WithObserver(obs))

	if ctx.Bool("repl") {
		return runREPL(vm, path)
	}

	_ = vm.StartFile(path)
	os.Exit(vm.Close())
	return nil
}
