// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scroll-convert/internal/export"
	"github.com/pdiddy/scroll-convert/internal/logging"
	"github.com/pdiddy/scroll-convert/internal/sqlitedb"
)

const genesisCSV = "Book,Chapter,Verse,Text\nGenesis,1,1,\"In the beginning\"\nGenesis,1,2,God created\n"

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeWithHome(t, t.TempDir(), args...)
}

// executeWithHome runs the CLI with HOME set to home.
func executeWithHome(t *testing.T, home string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Cleanup(func() { logging.InitLogger(os.Stderr, logging.LevelWarn, logging.FormatText) })

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMissingArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "input only", args: []string{"input.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			wd, err := os.Getwd()
			require.NoError(t, err)
			require.NoError(t, os.Chdir(dir))
			t.Cleanup(func() { os.Chdir(wd) })

			stdout, stderr, err := execute(t, tt.args...)
			require.ErrorIs(t, err, errUsage)
			assert.Contains(t, stderr, "requires <input-path> and <output-path>")
			assert.Contains(t, stdout+stderr, "Usage:")

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "no file should be created")
		})
	}
}

func TestConvertGenesis(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, genesisCSV)
	out := filepath.Join(dir, "bible.json")

	stdout, _, err := execute(t, in, out)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+out+" books: 1\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var got struct {
		Books []struct {
			Name       string `json:"name"`
			CommonName string `json:"commonName"`
			Order      int    `json:"order"`
			Chapters   []struct {
				Number  int `json:"number"`
				Content []struct {
					Number  int      `json:"number"`
					Content []string `json:"content"`
				} `json:"content"`
			} `json:"chapters"`
		} `json:"books"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Books, 1)
	b := got.Books[0]
	assert.Equal(t, "Genesis", b.Name)
	assert.Equal(t, "Genesis", b.CommonName)
	assert.Equal(t, 1, b.Order)
	require.Len(t, b.Chapters, 1)
	assert.Equal(t, 1, b.Chapters[0].Number)
	require.Len(t, b.Chapters[0].Content, 2)
	assert.Equal(t, []string{"In the beginning"}, b.Chapters[0].Content[0].Content)
	assert.Equal(t, []string{"God created"}, b.Chapters[0].Content[1].Content)
}

func TestExtraArgumentsIgnored(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, genesisCSV)
	out := filepath.Join(dir, "bible.json")

	_, _, err := execute(t, in, out, "ignored")
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestHeaderMissingVerse(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "Book,Chapter,Text\nGenesis,1,x\n")
	out := filepath.Join(dir, "bible.json")

	stdout, stderr, err := execute(t, in, out)
	require.Error(t, err)
	assert.Contains(t, stderr, "CSV header must include Book,Chapter,Verse,Text. Got: Book,Chapter,Text")
	assert.NotContains(t, stdout+stderr, "Usage:")
	assert.NoFileExists(t, out)
}

func TestMissingInputFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "bible.json")

	_, stderr, err := execute(t, filepath.Join(dir, "nope.csv"), out)
	require.Error(t, err)
	assert.Contains(t, stderr, "reading input")
	assert.NoFileExists(t, out)
}

func TestInvalidFormatRejectedBeforeReading(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "bible.json")

	_, _, err := execute(t, filepath.Join(dir, "nope.csv"), out, "--format", "xml")
	require.ErrorIs(t, err, export.ErrUnsupported)
	assert.NoFileExists(t, out)
}

func TestFormatSelection(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		args     []string
		env      map[string]string
		config   string
		contains string
	}{
		{
			name:     "yaml by extension",
			output:   "bible.yml",
			contains: "commonName: Genesis",
		},
		{
			name:     "yaml by flag",
			output:   "bible.out",
			args:     []string{"--format", "yaml"},
			contains: "commonName: Genesis",
		},
		{
			name:     "yaml by environment",
			output:   "bible.out",
			env:      map[string]string{"SCROLL_CONVERT_EXPORT_FORMAT": "yaml"},
			contains: "commonName: Genesis",
		},
		{
			name:     "yaml by config file",
			output:   "bible.out",
			config:   "export:\n  format: yaml\n",
			contains: "commonName: Genesis",
		},
		{
			name:     "flag beats config file",
			output:   "bible.out",
			args:     []string{"--format", "json"},
			config:   "export:\n  format: yaml\n",
			contains: `"commonName": "Genesis"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeInput(t, dir, genesisCSV)
			out := filepath.Join(dir, tt.output)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			args := []string{in, out}
			if tt.config != "" {
				cfgPath := filepath.Join(dir, "cfg.yaml")
				require.NoError(t, os.WriteFile(cfgPath, []byte(tt.config), 0o644))
				args = append(args, "--config", cfgPath)
			}
			args = append(args, tt.args...)

			_, _, err := execute(t, args...)
			require.NoError(t, err)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.contains)
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, genesisCSV)

	_, _, err := execute(t, in, filepath.Join(dir, "out.json"), "--config", filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestConfigFromHomeDirectory(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, genesisCSV)
	out := filepath.Join(dir, "bible.out")

	home := t.TempDir()
	cfgDir := filepath.Join(home, ".config", configName)
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	cfgPath := filepath.Join(cfgDir, configName+".yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("export:\n  format: yaml\n"), 0o644))

	_, stderr, err := executeWithHome(t, home, in, out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Using config file: "+cfgPath)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "commonName: Genesis")

	usage := newRootCmd().PersistentFlags().Lookup("config").Usage
	assert.Contains(t, usage, "~/.config/scroll-convert/scroll-convert.yaml")
}

func TestInputNamedLikeSubcommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "search")
	require.NoError(t, os.WriteFile(in, []byte(genesisCSV), 0o644))
	out := filepath.Join(dir, "bible.json")

	stdout, _, err := execute(t, in, out)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+out+" books: 1\n", stdout)

	assert.Contains(t, newRootCmd().Long, "convert ./search out.json")
}

func TestChecksumFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, genesisCSV)
	out := filepath.Join(dir, "bible.json")

	stdout, _, err := execute(t, in, out, "--checksum")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	sum := export.Blake3Hex(data)
	assert.Contains(t, stdout, "BLAKE3 "+sum)

	sidecar, err := os.ReadFile(out + ".blake3")
	require.NoError(t, err)
	assert.Equal(t, sum+"  bible.json\n", string(sidecar))
}

func TestDebugLoggingReportsSkippedRows(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, genesisCSV+",1,3,orphan\nGenesis,x,1,bad\n")
	out := filepath.Join(dir, "bible.json")

	stdout, stderr, err := execute(t, in, out, "--log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+out+" books: 1\n", stdout, "diagnostics must stay off stdout")
	assert.Contains(t, stderr, "msg=row_skipped")
	assert.Contains(t, stderr, `reason="empty book"`)
	assert.Contains(t, stderr, `reason="bad chapter"`)
	assert.Contains(t, stderr, "msg=conversion_summary")
}

func TestBadLogLevel(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, genesisCSV)

	_, _, err := execute(t, in, filepath.Join(dir, "out.json"), "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestSQLiteAndSearch(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, genesisCSV+"Exodus,1,1,Now these are the names\n")
	db := filepath.Join(dir, "bible.db")

	stdout, _, err := execute(t, in, db)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+db+" books: 2\n", stdout)

	stdout, _, err = execute(t, "search", db, "beginning")
	require.NoError(t, err)
	assert.Equal(t, "Genesis 1:1  In the beginning\n", stdout)

	stdout, _, err = execute(t, "search", db, "beginning", "--json")
	require.NoError(t, err)
	var hits []export.VerseHit
	require.NoError(t, json.Unmarshal([]byte(stdout), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "Genesis", hits[0].Book)

	stdout, _, err = execute(t, "search", db, "absent")
	require.NoError(t, err)
	assert.Equal(t, "No results found.\n", stdout)
}

func TestSearchMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "missing.db")

	_, _, err := execute(t, "search", db, "word")
	require.Error(t, err)
	assert.NoFileExists(t, db)
}

func TestSearchLeavesOtherDatabasesUnchanged(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "other.db")

	conn, err := sqlitedb.Open(db)
	require.NoError(t, err)
	_, err = conn.Exec(`CREATE TABLE notes (body TEXT)`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	before, err := os.ReadFile(db)
	require.NoError(t, err)

	_, stderr, err := execute(t, "search", db, "word")
	require.ErrorIs(t, err, export.ErrNotExport)
	assert.Contains(t, stderr, "not a scroll-convert database")

	after, err := os.ReadFile(db)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "convert dev"), stdout)
}
