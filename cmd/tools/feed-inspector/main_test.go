package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-workers/pkg/taxonomy"
)

const sampleFeed = `<Jobs>
  <Job Jobid="1"><JobTitle>Registered Nurse</JobTitle><JobBody>Patient care.</JobBody></Job>
  <Job Jobid="2"><JobTitle>Software Engineer</JobTitle><JobBody>Python services.</JobBody></Job>
</Jobs>`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseCommand(t *testing.T) {
	var out bytes.Buffer
	err := run("parse", []string{"-file", writeFile(t, "feed.xml", sampleFeed)}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Jobs: 2")
	assert.Contains(t, out.String(), "Registered Nurse")
}

func TestParseCommand_RequiresFile(t *testing.T) {
	err := run("parse", nil, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestScoreCommand_RanksRoleMatchFirst(t *testing.T) {
	feed := writeFile(t, "feed.xml", sampleFeed)
	profile := writeFile(t, "profile.json", `{"role":"Software Developer","skills":[{"name":"Python"}]}`)

	var out bytes.Buffer
	require.NoError(t, run("score", []string{"-file", feed, "-profile", profile}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Software Engineer")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "0"))
}

func TestTaxonomyCommand_DumpRoundTrips(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run("taxonomy", []string{"-dump"}, &out))

	parsed, err := taxonomy.Parse(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, len(taxonomy.Default().Categories), len(parsed.Categories))

	path := writeFile(t, "tax.json", out.String())
	out.Reset()
	require.NoError(t, run("taxonomy", []string{"-path", path}, &out))
	assert.Contains(t, out.String(), "Taxonomy valid")
}

func TestTaxonomyCommand_Expand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run("taxonomy", []string{"-expand", "developer"}, &out))
	assert.Contains(t, out.String(), "engineer")
}

func TestTaxonomyCommand_InvalidDocument(t *testing.T) {
	err := run("taxonomy", []string{"-path", writeFile(t, "tax.json", `{"categories":"nope"}`)}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	assert.Error(t, run("frobnicate", nil, &bytes.Buffer{}))
}
