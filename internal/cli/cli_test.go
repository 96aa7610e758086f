package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const sampleInput = `product,price,quantity,date,region
pink morsel,$3.00,100,2021-01-14,north
gold morsel,$9.99,10,2021-01-14,north
pink morsel,$3.00,250,2021-01-15,south
Pink Morsel,$2.50,20,2021-01-15,north
`

func TestVersion(t *testing.T) {
	prev := Version
	Version = "1.2.3"
	t.Cleanup(func() { Version = prev })

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "morselctl version 1.2.3\n", out)
}

func TestProcessAndReport(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "sales.csv", sampleInput)
	artifact := filepath.Join(dir, "out.csv")

	out, _, err := execute(t, "process", "-i", input, "-o", artifact, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 3 records to "+artifact)

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, "sales,date,region\n300.00,2021-01-14,north\n750.00,2021-01-15,south\n50.00,2021-01-15,north\n", string(data))

	out, _, err = execute(t, "report", "-a", artifact, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Sales by date and region")
	assert.Contains(t, out, "2021-01-14")
	assert.Contains(t, out, "$750")

	// south outranks north.
	southAt := strings.Index(out, "$750")
	northAt := strings.Index(out, "$350")
	require.NotEqual(t, -1, northAt)
	assert.Less(t, southAt, northAt)
}

func TestProcess_Preview(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "sales.csv", sampleInput)
	artifact := filepath.Join(dir, "out.csv")

	out, _, err := execute(t, "process", "-i", input, "-o", artifact, "--preview", "2", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "SALES")
	assert.Contains(t, out, "300.00")
	assert.Contains(t, out, "750.00")
	// Only the first two records are shown; the third is also dated 2021-01-15.
	assert.Equal(t, 1, strings.Count(out, "2021-01-15"))
}

func TestReport_Filters(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "sales.csv", sampleInput)
	artifact := filepath.Join(dir, "out.csv")
	_, _, err := execute(t, "process", "-i", input, "-o", artifact, "--log-level", "error")
	require.NoError(t, err)

	out, _, err := execute(t, "report", "-a", artifact, "--region", "north", "--log-level", "error")
	require.NoError(t, err)
	assert.NotContains(t, out, "south")

	out, _, err = execute(t, "report", "-a", artifact, "--start", "2021-02-01", "--end", "2021-02-28", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "no sales match the filter")

	_, _, err = execute(t, "report", "-a", artifact, "--start", "yesterday", "--end", "2021-02-28")
	require.Error(t, err)
}

func TestReport_MissingArtifact(t *testing.T) {
	_, errOut, err := execute(t, "report", "-a", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, errOut, "morselctl process")
}

func TestProcess_BadInput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "bad.csv", "product,price,quantity,date,region\npink morsel,$3.00,1,2021-01-14,central\n")
	artifact := filepath.Join(dir, "out.csv")

	_, _, err := execute(t, "process", "-i", input, "-o", artifact, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "central")

	_, statErr := os.Stat(artifact)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := execute(t, "frobnicate")
	require.Error(t, err)
}
