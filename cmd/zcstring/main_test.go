package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestJSONCommand(t *testing.T) {
	path := writeFile(t, "entry.json", `{"level":"error","message":"Escaped \" ","tags":["db","net"]}`)

	out, err := run(t, "--log-level", "error", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, "$.level\tborrowed\t\"error\"\n")
	assert.Contains(t, out, "$.message\towned\t\"Escaped \\\" \"\n")
	assert.Contains(t, out, "$.tags[1]\tborrowed\t\"net\"\n")

	out, err = run(t, "--log-level", "error", "json", path, "--path", "tags.0", "--path", "tags.#")
	require.NoError(t, err)
	assert.Equal(t, "tags.0\tborrowed\tdb\ntags.#\towned\t2\n", out)

	_, err = run(t, "--log-level", "error", "json", path, "--path", "missing")
	require.ErrorContains(t, err, `path "missing" not found`)
}

func TestJSONCommandCopyStrings(t *testing.T) {
	t.Setenv("ZCSTRING_DECODE_COPY_STRINGS", "true")
	path := writeFile(t, "entry.json", `{"level":"error"}`)

	out, err := run(t, "--log-level", "error", "json", path)
	require.NoError(t, err)
	assert.Equal(t, "$.level\towned\t\"error\"\n", out)
}

func TestLinesCommand(t *testing.T) {
	path := writeFile(t, "animals.txt", "  cats\n\n dogs \r\nfrogs")
	out, err := run(t, "--log-level", "error", "lines", path)
	require.NoError(t, err)
	assert.Equal(t, "1\tborrowed\tcats\n3\tborrowed\tdogs\n4\tborrowed\tfrogs\n", out)
}

func TestPackAndFrameCommands(t *testing.T) {
	names := writeFile(t, "names.txt", "ada\n  grace \n\nbarbara\n")
	frames := filepath.Join(t.TempDir(), "batches.zc")

	_, err := run(t, "--log-level", "error", "pack", names, "--out", frames)
	require.NoError(t, err)
	_, err = run(t, "--log-level", "error", "pack", names, "--out", frames, "--compress")
	require.NoError(t, err)

	out, err := run(t, "--log-level", "error", "frame", frames)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "0\t1\tborrowed\t\"grace\"", lines[1])
	assert.Equal(t, "1\t1\towned\t\"grace\"", lines[4])
}

func TestGlobalFlagErrors(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "lines", "x")
	require.ErrorContains(t, err, "invalid --log-level")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "lines", "x")
	require.ErrorContains(t, err, "failed to open config file")

	cfg := writeFile(t, "config.yaml", "log:\n  format: xml\n")
	_, err = run(t, "--config", cfg, "lines", "x")
	require.ErrorContains(t, err, "invalid log format")
}
