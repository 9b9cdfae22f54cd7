package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/shadergrid/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), []string{"--help"}, out, &bytes.Buffer{})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
	require.Contains(t, out.String(), "compile")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), []string{"--this-is-not-a-valid-flag"}, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_CompileInvalidHCL(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte("node \"a\" {\n  type = \n"), 0o600))

	// --- Act ---
	err := run(context.Background(), []string{"compile", filePath}, &bytes.Buffer{}, &bytes.Buffer{})

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitCompile, exitErr.Code)
	require.Contains(t, exitErr.Message, "failed to parse")
}
