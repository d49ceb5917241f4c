package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/linprog/lib/parser"
	"github.com/vyPal/linprog/lib/polynomial"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "parse",
		Usage:     "Parse linear expressions and print their terms",
		ArgsUsage: "<expression>...",
		Category:  "inspect",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Print the parsed terms as JSON",
			},
			&cli.BoolFlag{
				Name:    "constraint",
				Aliases: []string{"c"},
				Usage:   "Parse each argument as a constraint such as \"x + y <= 4\"",
			},
			&cli.BoolFlag{
				Name: "ebnf",
				Usage: "Print the EBNF grammar for constraints. " +
					"Useful for debugging the parser.",
			},
		},
		Action: parse,
	})
}

type parsed struct {
	Input      string                `json:"input"`
	Terms      polynomial.Expression `json:"terms"`
	Comparator parser.Comparator     `json:"comparator,omitempty"`
	RHS        *int                  `json:"rhs,omitempty"`
}

func parseArgs(c *cli.Context) ([]parsed, error) {
	results := make([]parsed, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		if c.Bool("constraint") {
			constraint, err := parser.ParseConstraint(arg)
			if err != nil {
				return nil, err
			}
			rhs := constraint.RHS
			results = append(results, parsed{Input: arg, Terms: constraint.LHS, Comparator: constraint.Comparator, RHS: &rhs})
			continue
		}

		expr, err := polynomial.ParseExpression(arg)
		if err != nil {
			return nil, err
		}
		results = append(results, parsed{Input: arg, Terms: expr})
	}
	return results, nil
}

func parse(c *cli.Context) error {
	if c.Bool("ebnf") {
		fmt.Fprintln(c.App.Writer, parser.Parser().String())
		return nil
	}

	if c.NArg() == 0 {
		return cli.Exit(color.RedString("Error: No expression specified"), 1)
	}

	results, err := parseArgs(c)
	if err != nil {
		return cli.Exit(color.RedString("Error parsing: %s", err), 1)
	}

	if c.Bool("json") {
		encoder := json.NewEncoder(c.App.Writer)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(results); err != nil {
			return cli.Exit(color.RedString("Error encoding terms: %s", err), 1)
		}
		return nil
	}

	for _, result := range results {
		fmt.Fprintln(c.App.Writer, result.Input)

		table := tablewriter.NewWriter(c.App.Writer)
		table.SetHeader([]string{"#", "Coefficient", "Variable"})
		for i, term := range result.Terms {
			table.Append([]string{strconv.Itoa(i + 1), strconv.Itoa(term.Coefficient), string(term.Variable)})
		}
		if result.RHS != nil {
			table.SetFooter([]string{"", string(result.Comparator), strconv.Itoa(*result.RHS)})
		}
		table.Render()
	}

	return nil
}
