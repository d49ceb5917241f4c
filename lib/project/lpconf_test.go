package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyPal/linprog/util"
)

func TestLPConf_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	conf := LPConf{}
	conf.CreateDefault("sample")

	written, err := conf.Save(filepath.Join(dir, FileName), false)
	require.NoError(t, err)
	assert.True(t, written)

	loaded, err := GetLPConf(dir)
	require.NoError(t, err)
	assert.Equal(t, conf, loaded)
	assert.Len(t, loaded.Constraints, 9)
}

func TestLPConf_CreateDefaultName(t *testing.T) {
	conf := LPConf{}
	conf.CreateDefault(".")
	assert.Equal(t, "NewProblem", conf.Name)
	assert.Equal(t, FormatVersion, conf.Format)
}

func TestLPConf_SaveRespectsPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("keep me"), 0644))

	oldIn, oldOut := util.Stdin, util.Stdout
	t.Cleanup(func() { util.Stdin, util.Stdout = oldIn, oldOut })
	util.Stdout = &strings.Builder{}

	conf := LPConf{}
	conf.CreateDefault("x")

	util.Stdin = strings.NewReader("n\n")
	written, err := conf.Save(path, false)
	require.NoError(t, err)
	assert.False(t, written)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))

	util.Stdin = strings.NewReader("y\n")
	written, err = conf.Save(path, false)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = conf.Save(path, true)
	require.NoError(t, err)
	assert.True(t, written)

	loaded, err := ReadLPConf(path)
	require.NoError(t, err)
	assert.Equal(t, "x", loaded.Name)
}

func TestReadLPConf(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "valid",
			content: "format: 1.2.0\nname: p\nsense: min\ngoal: x + y\nconstraints:\n  - x + y >= 2\n",
		},
		{
			name:    "missing format",
			content: "name: p\ngoal: x\n",
			wantErr: "no format version",
		},
		{
			name:    "future format",
			content: "format: 2.0.0\nname: p\ngoal: x\n",
			wantErr: "not supported",
		},
		{
			name:    "garbage format",
			content: "format: one\nname: p\ngoal: x\n",
			wantErr: "invalid format version",
		},
		{
			name:    "unknown field",
			content: "format: 1.0.0\nobjective: x\n",
			wantErr: "objective",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "problem.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			conf, err := ReadLPConf(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "min", conf.Sense)
			assert.Equal(t, []string{"x + y >= 2"}, conf.Constraints)
		})
	}
}

func TestGetLPConf_Missing(t *testing.T) {
	_, err := GetLPConf(t.TempDir())
	assert.True(t, os.IsNotExist(err))
}
