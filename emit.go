package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/linprog/lib/compiler"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "emit",
		Usage:     "Compile a problem's objective and constraints to LLVM IR",
		ArgsUsage: "[problem file]",
		Category:  "solve",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the IR to this file instead of stdout",
			},
		}, programFlags...),
		Action: emit,
	})
}

func emit(c *cli.Context) error {
	progs, err := loadPrograms(c)
	if err != nil {
		return cli.Exit(color.RedString("Error loading problem: %s", err), 1)
	}
	if len(progs) != 1 {
		return cli.Exit(color.RedString("Error: emit takes exactly one problem, got %d", len(progs)), 1)
	}

	comp := compiler.NewCompiler()
	if err := comp.Compile(progs[0].Program); err != nil {
		return cli.Exit(color.RedString("Error compiling: %s", err), 1)
	}

	out := c.String("output")
	if out == "" {
		fmt.Fprint(c.App.Writer, comp.String())
		return nil
	}

	if err := os.WriteFile(out, []byte(comp.String()), 0644); err != nil {
		return cli.Exit(color.RedString("Error writing %s: %s", out, err), 1)
	}
	fmt.Fprintln(c.App.Writer, color.GreenString("Wrote %s", out))
	return nil
}
