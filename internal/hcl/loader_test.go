package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGrid(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeGrid(t, dir, "main.hcl", `
		task "fetch" {
			runner = "http_request"
			arguments {
				url = "https://example.com"
			}
		}

		task "report" {
			runner     = "print"
			depends_on = ["fetch"]
		}
	`)

	tasks, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "fetch", tasks[0].Name)
	assert.Equal(t, "http_request", tasks[0].Runner)
	assert.Empty(t, tasks[0].DependsOn)
	assert.NotNil(t, tasks[0].Arguments)

	assert.Equal(t, "report", tasks[1].Name)
	assert.Equal(t, []string{"fetch"}, tasks[1].DependsOn)
	assert.Nil(t, tasks[1].Arguments, "no arguments block was declared")
}

func TestLoad_DirectoryMergesFilesInStableOrder(t *testing.T) {
	dir := t.TempDir()
	writeGrid(t, dir, "b.hcl", `task "beta" { runner = "print" }`)
	writeGrid(t, dir, "a.hcl", `task "alpha" { runner = "print" }`)

	tasks, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "alpha", tasks[0].Name, "files load in sorted order")
	assert.Equal(t, "beta", tasks[1].Name)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGrid(t, dir, "bad.hcl", `task "x" {`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("runner attribute is required", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGrid(t, dir, "bad.hcl", `task "x" {}`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to decode")
	})
}

func TestDecodeArguments(t *testing.T) {
	type input struct {
		URL    string `hcl:"url"`
		Method string `hcl:"method,optional"`
	}

	t.Run("decodes against eval context", func(t *testing.T) {
		t.Setenv("TARGET_HOST", "example.com")
		dir := t.TempDir()
		path := writeGrid(t, dir, "main.hcl", `
			task "fetch" {
				runner = "http_request"
				arguments {
					url = "https://${env.TARGET_HOST}/health"
				}
			}
		`)
		tasks, err := NewLoader().Load(context.Background(), path)
		require.NoError(t, err)

		var in input
		require.NoError(t, DecodeArguments(tasks[0].Arguments, EvalContext(), &in))
		assert.Equal(t, "https://example.com/health", in.URL)
		assert.Empty(t, in.Method)
	})

	t.Run("nil body decodes optional-only inputs", func(t *testing.T) {
		type optional struct {
			Message string `hcl:"message,optional"`
		}
		var in optional
		assert.NoError(t, DecodeArguments(nil, EvalContext(), &in))
	})

	t.Run("missing required attribute fails", func(t *testing.T) {
		var in input
		assert.Error(t, DecodeArguments(nil, EvalContext(), &in))
	})
}
