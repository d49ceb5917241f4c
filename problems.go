package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/linprog/lib/cache"
	"github.com/vyPal/linprog/lib/parser"
	"github.com/vyPal/linprog/lib/project"
	"github.com/vyPal/linprog/util"
)

func init() {
	cacheDir := &cli.StringFlag{
		Name:  "cache-dir",
		Usage: "Where fetched problems are kept",
	}

	commands = append(commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a new problem file",
		ArgsUsage: "[directory]",
		Category:  "problems",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Use the sample problem without asking",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing problem file",
			},
		},
		Action: initProblem,
	}, &cli.Command{
		Name:      "fetch",
		Usage:     "Download a git repository of problem files into the cache",
		ArgsUsage: "<owner/repo[@branch]>",
		Category:  "problems",
		Flags: []cli.Flag{
			cacheDir,
			&cli.BoolFlag{
				Name:    "update",
				Aliases: []string{"u"},
				Usage:   "Pull the latest changes of an already fetched repository",
			},
		},
		Action: fetch,
	}, &cli.Command{
		Name:     "list",
		Usage:    "List cached problems",
		Category: "problems",
		Flags:    []cli.Flag{cacheDir},
		Action:   list,
	})
}

func initProblem(c *cli.Context) error {
	rootDir := c.Args().First()
	if rootDir == "" {
		rootDir = "."
	}

	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return err
	}

	name, err := filepath.Abs(rootDir)
	if err != nil {
		return err
	}

	conf := project.LPConf{}
	conf.CreateDefault(filepath.Base(name))

	if !c.Bool("yes") && !util.PromptYN("Use the sample problem?", true) {
		conf.Name = util.PromptString("Problem name", conf.Name)
		conf.Description = util.PromptString("Problem description", conf.Description)
		conf.Sense = util.PromptString("Maximise or minimise", conf.Sense)
		conf.Goal = util.PromptString("Goal", conf.Goal)
		conf.Constraints = nil
		for {
			constraint := util.PromptString("Constraint (empty to finish)", "")
			if constraint == "" {
				break
			}
			if _, err := parser.ParseConstraint(constraint); err != nil {
				color.Red("%s", err)
				continue
			}
			conf.Constraints = append(conf.Constraints, constraint)
		}
	}

	if _, err := parser.ParseProgram(conf.Sense, conf.Goal, conf.Constraints); err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}

	path := filepath.Join(rootDir, project.FileName)
	written, err := conf.Save(path, c.Bool("force"))
	if err != nil {
		return err
	}
	if !written {
		return nil
	}

	fmt.Fprintln(c.App.Writer, "Created file:", path)
	fmt.Fprintln(c.App.Writer, "Run 'cd", rootDir, "&& linprog solve' to solve it.")
	return nil
}

func fetch(c *cli.Context) error {
	repo := c.Args().First()
	if repo == "" {
		return cli.Exit(color.RedString("Error: No repository specified"), 1)
	}

	pcache := cache.ProblemCache{}
	if err := pcache.Init(c.String("cache-dir")); err != nil {
		return err
	}
	if err := pcache.Scan(true); err != nil {
		return err
	}

	var set cache.ProblemSet
	var err error
	if c.Bool("update") {
		u, version, perr := cache.PrepURL(repo)
		if perr != nil {
			return cli.Exit(color.RedString("Error: %s", perr), 1)
		}
		set, err = pcache.Update(cache.Identifier(u), version)
	} else {
		color.Green("Cloning %s...", repo)
		set, err = pcache.Install(repo)
	}
	if err != nil {
		return cli.Exit(color.RedString("Error fetching: %s", err), 1)
	}

	fmt.Fprintf(c.App.Writer, "%s@%s: %d problems\n", set.Identifier, set.Version, len(set.Problems))
	return nil
}

func list(c *cli.Context) error {
	pcache := cache.ProblemCache{}
	if err := pcache.Init(c.String("cache-dir")); err != nil {
		return err
	}
	if err := pcache.Scan(true); err != nil {
		return err
	}

	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader([]string{"Set", "Branch", "Problem", "File"})
	for _, set := range pcache.Sets {
		for _, problem := range set.Problems {
			table.Append([]string{set.Identifier, set.Version, problem.Name, problem.File})
		}
	}
	table.Render()
	return nil
}
