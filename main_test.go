package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/linprog/lib/project"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	oldExiter, oldErrWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(int) {}
	cli.ErrWriter = io.Discard
	t.Cleanup(func() {
		cli.OsExiter, cli.ErrWriter = oldExiter, oldErrWriter
	})

	out := &bytes.Buffer{}
	app := newApp()
	app.Writer = out
	app.ErrWriter = io.Discard

	err := app.Run(append([]string{"linprog"}, args...))
	return out.String(), err
}

func TestParseCommand_JSON(t *testing.T) {
	out, err := run(t, "parse", "--json", "2x + 3y - 5z", "y")
	require.NoError(t, err)

	var got []struct {
		Input string `json:"input"`
		Terms []struct {
			Coefficient int    `json:"coefficient"`
			Variable    string `json:"variable"`
		} `json:"terms"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "2x + 3y - 5z", got[0].Input)
	require.Len(t, got[0].Terms, 3)
	assert.Equal(t, -5, got[0].Terms[2].Coefficient)
	assert.Equal(t, "z", got[0].Terms[2].Variable)

	require.Len(t, got[1].Terms, 1)
	assert.Equal(t, 1, got[1].Terms[0].Coefficient)
}

func TestParseCommand_Table(t *testing.T) {
	out, err := run(t, "parse", "2x + 3y - 5z")
	require.NoError(t, err)
	assert.Contains(t, out, "2x + 3y - 5z")
	assert.Contains(t, out, "COEFFICIENT")
	assert.Contains(t, out, "-5")
}

func TestParseCommand_Constraint(t *testing.T) {
	out, err := run(t, "parse", "--constraint", "--json", "x + y <= 9")
	require.NoError(t, err)
	assert.Contains(t, out, `"input": "x + y <= 9"`)
	assert.Contains(t, out, `"comparator": "<="`)
	assert.NotContains(t, out, `\u003c`)
	assert.Contains(t, out, `"rhs": 9`)
}

func TestParseCommand_Errors(t *testing.T) {
	tests := [][]string{
		{"parse"},
		{"parse", "x - - y"},
		{"parse", "5"},
		{"parse", "--constraint", "x < 4"},
	}

	for _, args := range tests {
		_, err := run(t, args...)
		require.Error(t, err, args)

		exitErr, ok := err.(cli.ExitCoder)
		require.True(t, ok, args)
		assert.Equal(t, 1, exitErr.ExitCode())
	}
}

func TestParseCommand_EBNF(t *testing.T) {
	out, err := run(t, "parse", "--ebnf")
	require.NoError(t, err)
	assert.Contains(t, out, "ConstraintLine")
}

func TestSolveCommand_Flags(t *testing.T) {
	out, err := run(t, "solve", "--json",
		"--goal", "x + 2y",
		"--constraint", "- x + 2y <= 4",
		"--constraint", "3x + y <= 9",
	)
	require.NoError(t, err)

	var got []solutionOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.InDelta(t, 8, got[0].Objective, 1e-6)
	assert.InDelta(t, 2, got[0].Values["x"], 1e-6)
	assert.InDelta(t, 3, got[0].Values["y"], 1e-6)
}

func TestSolveCommand_Files(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "init", "--yes", dir)
	require.NoError(t, err)

	second := filepath.Join(dir, "second.yaml")
	conf := project.LPConf{
		Format:      project.FormatVersion,
		Name:        "second",
		Sense:       "min",
		Goal:        "x + y",
		Constraints: []string{"x + y >= 3"},
	}
	_, err = conf.Save(second, true)
	require.NoError(t, err)

	out, err := run(t, "solve", filepath.Join(dir, project.FileName), second)
	require.NoError(t, err)
	assert.Contains(t, out, "maximise 9x + 2y + 4z")
	assert.Contains(t, out, "OBJECTIVE")
	assert.Contains(t, out, "58")
	assert.Contains(t, out, "second: minimise 1x + 1y")
}

func TestSolveCommand_Strict(t *testing.T) {
	_, err := run(t, "solve", "--strict", "--goal", "x + x", "--constraint", "x <= 1")
	require.Error(t, err)

	_, err = run(t, "solve", "--goal", "x + x", "--constraint", "x <= 1")
	require.NoError(t, err)
}

func TestSolveCommand_Infeasible(t *testing.T) {
	_, err := run(t, "solve", "--goal", "x", "--constraint", "x <= 1", "--constraint", "x >= 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infeasible")
}

func TestSolveCommand_MissingFile(t *testing.T) {
	_, err := run(t, "solve", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEmitCommand(t *testing.T) {
	out, err := run(t, "emit", "--goal", "2x + y", "--constraint", "x + y <= 4")
	require.NoError(t, err)
	assert.Contains(t, out, "define i64 @objective(i64 %x, i64 %y)")
	assert.Contains(t, out, "define i1 @feasible(i64 %x, i64 %y)")

	path := filepath.Join(t.TempDir(), "out.ll")
	out, err = run(t, "emit", "-o", path, "--goal", "x", "--constraint", "x <= 4")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@constraint_0")
}

func TestInitCommand_Force(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.FileName)
	require.NoError(t, os.WriteFile(path, []byte("format: 1.0.0\nname: mine\ngoal: x\n"), 0644))

	_, err := run(t, "init", "--yes", "--force", dir)
	require.NoError(t, err)

	conf, err := project.ReadLPConf(path)
	require.NoError(t, err)
	assert.Len(t, conf.Constraints, 9)
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list", "--cache-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "PROBLEM")
}

func TestFetchCommand_NoRepository(t *testing.T) {
	_, err := run(t, "fetch", "--cache-dir", t.TempDir())
	require.Error(t, err)
}
