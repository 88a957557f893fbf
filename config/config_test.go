package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/greentree/treediff"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    func(*Config)
		wantErr error
	}{
		{
			name:  "empty file gives defaults",
			input: "",
			want:  func(*Config) {},
		},
		{
			name:  "partial sections keep other defaults",
			input: "diff:\n  context: 5\nformat:\n  indent: \"\\t\"\n",
			want: func(c *Config) {
				c.Diff.Context = 5
				c.Format.Indent = "\t"
			},
		},
		{
			name:  "log section",
			input: "log:\n  verbosity: 3\n  path: /tmp/greentree.log\n",
			want: func(c *Config) {
				c.Log.Verbosity = 3
				c.Log.Path = "/tmp/greentree.log"
			},
		},
		{
			name:    "negative context",
			input:   "diff:\n  context: -1\n",
			wantErr: ErrInvalid,
		},
		{
			name:    "zero lcs cells",
			input:   "diff:\n  max_lcs_cells: 0\n",
			wantErr: ErrInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			want := Default()
			tt.want(&want)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("difff:\n  context: 2\n"))
	assert.Error(t, err)
}

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", FileName)

	cfg := Default()
	cfg.Format.MaxBlankLines = 2
	require.NoError(t, cfg.Write(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	_, ok := Find(sub)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("log:\n  verbosity: 2\n"), 0644))
	path, ok := Find(sub)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, FileName), path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, treediff.DefaultMaxLCSCells, cfg.Diff.MaxLCSCells)
	assert.Len(t, cfg.DiffOptions(), 1)
	assert.Len(t, cfg.FormatOptions(), 2)
	assert.NoError(t, cfg.Validate())
}
