package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/linprog/lib/analyzer"
	"github.com/vyPal/linprog/lib/cache"
	"github.com/vyPal/linprog/lib/parser"
	"github.com/vyPal/linprog/lib/project"
	"github.com/vyPal/linprog/lib/solver"
)

var programFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "goal",
		Aliases: []string{"g"},
		Usage:   "The objective, e.g. \"9x + 2y + 4z\". Skips problem files",
	},
	&cli.StringSliceFlag{
		Name:    "constraint",
		Aliases: []string{"c"},
		Usage:   "A constraint such as \"x + y <= 9\". Repeat for more",
	},
	&cli.StringFlag{
		Name:    "sense",
		Aliases: []string{"s"},
		Usage:   "Whether to maximise or minimise the goal",
		Value:   "maximise",
	},
	&cli.StringSliceFlag{
		Name:    "problem",
		Aliases: []string{"p"},
		Usage:   "Use a problem from the cache, see 'linprog fetch'",
	},
	&cli.StringFlag{
		Name:  "cache-dir",
		Usage: "Where fetched problems are kept",
	},
}

func init() {
	commands = append(commands, &cli.Command{
		Name:      "solve",
		Usage:     "Solve linear programs",
		ArgsUsage: "[problem file]...",
		Category:  "solve",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Print the solutions as JSON",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Treat analyzer warnings as errors",
			},
		}, programFlags...),
		Action: solve,
	})
}

type namedProgram struct {
	Name    string
	Program *parser.Program
}

// loadPrograms collects programs from, in order of preference: the --goal
// and --constraint flags, --problem names, file arguments, and lpconf.yaml
// in the working directory.
func loadPrograms(c *cli.Context) ([]namedProgram, error) {
	if c.IsSet("goal") {
		prog, err := parser.ParseProgram(c.String("sense"), c.String("goal"), c.StringSlice("constraint"))
		if err != nil {
			return nil, err
		}
		return []namedProgram{{Name: "command line", Program: prog}}, nil
	}

	files := c.Args().Slice()

	if names := c.StringSlice("problem"); len(names) > 0 {
		pcache := cache.ProblemCache{}
		if err := pcache.Init(c.String("cache-dir")); err != nil {
			return nil, err
		}
		if err := pcache.Scan(true); err != nil {
			return nil, err
		}
		for _, name := range names {
			problem, ok := pcache.Find(name)
			if !ok {
				return nil, errors.Errorf("problem %q not found in the cache", name)
			}
			files = append(files, problem.File)
		}
	}

	if len(files) == 0 {
		files = []string{project.FileName}
	}

	progs := make([]namedProgram, 0, len(files))
	for _, file := range files {
		conf, err := project.ReadLPConf(file)
		if err != nil {
			return nil, err
		}
		prog, err := parser.ParseProgram(conf.Sense, conf.Goal, conf.Constraints)
		if err != nil {
			return nil, errors.Wrap(err, file)
		}
		name := conf.Name
		if name == "" {
			name = filepath.Base(file)
		}
		progs = append(progs, namedProgram{Name: name, Program: prog})
	}
	return progs, nil
}

func analyze(c *cli.Context, progs []namedProgram) error {
	warn := color.New(color.FgYellow)
	for _, np := range progs {
		report, err := analyzer.Analyze(np.Program)
		if err != nil {
			return errors.Wrap(err, np.Name)
		}
		for _, w := range report.Warnings {
			warn.Fprintf(c.App.ErrWriter, "Warning: %s: %s\n", np.Name, w)
		}
		if c.Bool("strict") && len(report.Warnings) > 0 {
			return errors.Errorf("%s: %d analyzer warnings", np.Name, len(report.Warnings))
		}
		logrus.WithFields(logrus.Fields{
			"problem":   np.Name,
			"variables": string(report.Variables),
		}).Debug("analyzed")
	}
	return nil
}

type solutionOutput struct {
	Name      string             `json:"name"`
	Objective float64            `json:"objective"`
	Values    map[string]float64 `json:"values"`
}

func solve(c *cli.Context) error {
	progs, err := loadPrograms(c)
	if err != nil {
		return cli.Exit(color.RedString("Error loading problem: %s", err), 1)
	}

	if err := analyze(c, progs); err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}

	plain := make([]*parser.Program, 0, len(progs))
	for _, np := range progs {
		plain = append(plain, np.Program)
	}

	solutions, err := solver.SolveAll(c.Context, plain)
	if err != nil {
		return cli.Exit(color.RedString("Error solving: %s", err), 1)
	}

	if c.Bool("json") {
		out := make([]solutionOutput, 0, len(solutions))
		for i, sol := range solutions {
			values := make(map[string]float64, len(sol.Values))
			for v, x := range sol.Values {
				values[string(v)] = x
			}
			out = append(out, solutionOutput{Name: progs[i].Name, Objective: sol.Objective, Values: values})
		}
		encoder := json.NewEncoder(c.App.Writer)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(out); err != nil {
			return cli.Exit(color.RedString("Error encoding solutions: %s", err), 1)
		}
		return nil
	}

	for i, sol := range solutions {
		printSolution(c.App.Writer, progs[i], sol)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 10, 64)
}

func printSolution(w io.Writer, np namedProgram, sol *solver.Solution) {
	fmt.Fprintf(w, "%s: %s %s\n", np.Name, np.Program.Sense, np.Program.Goal)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variable", "Value"})
	for _, v := range sol.Variables {
		table.Append([]string{string(v), formatFloat(sol.Values[v])})
	}
	table.SetFooter([]string{"Objective", formatFloat(sol.Objective)})
	table.Render()
}
