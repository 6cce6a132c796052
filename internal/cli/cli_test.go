package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/dp-headlines/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStore = `{
  "2026-10-17": {"date": "2026-10-17", "headlines": [{"title": "Old news", "link": "/old"}]},
  "2026-10-19": {"date": "2026-10-19", "headlines": [{"title": "A", "link": "/a"}, {"title": "B", "link": "/b"}]},
  "2026-10-18": {"date": "2026-10-18", "headlines": []}
}`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DP_URL", "DP_DATA_DIR", "DP_STORE_NAME", "DP_TIMEOUT", "DP_TIMEZONE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("DP_LOG_FILE", "none")
}

// runCLI executes the root command with args and returns stdout
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func writeStore(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "headlines.json"), []byte(content), 0644))
	return dir
}

func TestShow_Text(t *testing.T) {
	dir := writeStore(t, sampleStore)

	out, err := runCLI(t, "show", "--data-dir", dir, "--store", "headlines", "--sort", "date")
	require.NoError(t, err)

	assert.Contains(t, out, "2026-10-19 (2 headlines):")
	assert.Contains(t, out, "Total: 3 headlines across 3 days")
	assert.Less(t, strings.Index(out, "2026-10-17"), strings.Index(out, "2026-10-18"))
	assert.Less(t, strings.Index(out, "2026-10-18"), strings.Index(out, "2026-10-19"))
	assert.NotContains(t, out, "Link:")
}

func TestShow_VerboseIncludesLinks(t *testing.T) {
	dir := writeStore(t, sampleStore)

	out, err := runCLI(t, "show", "2026-10-19", "--data-dir", dir, "--store", "headlines", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "Link: /a")
	assert.NotContains(t, out, "Old news")
}

func TestShow_JSON(t *testing.T) {
	dir := writeStore(t, sampleStore)

	out, err := runCLI(t, "show", "--data-dir", dir, "--store", "headlines", "--format", "json")
	require.NoError(t, err)

	var result OutputResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.DateCount)
	assert.Equal(t, 3, result.HeadlineCount)
	require.Len(t, result.Snapshots, 3)
	assert.Equal(t, "2026-10-17", result.Snapshots[0].Date, "file order by default")
	assert.Equal(t, "2026-10-18", result.Snapshots[2].Date)
}

func TestShow_Errors(t *testing.T) {
	dir := writeStore(t, sampleStore)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid format", []string{"show", "--format", "xml"}, "invalid format"},
		{"invalid sort", []string{"show", "--sort", "random"}, "invalid sort"},
		{"unknown date", []string{"show", "2020-01-01"}, "no headlines recorded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--data-dir", dir, "--store", "headlines")
			_, err := runCLI(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestShow_CorruptStore(t *testing.T) {
	dir := writeStore(t, `{"2026-10-19": {"date": "2026-10-19"}}`)

	_, err := runCLI(t, "show", "--data-dir", dir, "--store", "headlines")

	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStoreCorrupt)
}

func TestRootScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(homepage))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "data")

	_, err := runCLI(t, "--data-dir", dir, "--store", "headlines", "--url", server.URL, "--timezone", "UTC")
	require.NoError(t, err)

	store, err := storage.Load(filepath.Join(dir, "headlines.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestScrapeThenShow_HomeRelativeDataDir(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(homepage))
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("HOME", home)

	_, err := runCLI(t, "scrape", "--data-dir", "~/dp", "--store", "headlines", "--url", server.URL, "--timezone", "UTC")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, "dp", "headlines.json"))

	out, err := runCLI(t, "show", "--data-dir", "~/dp", "--store", "headlines", "--format", "json")
	require.NoError(t, err)

	var result OutputResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.DateCount)
}

func TestRun_ClosesLogFileOnFailure(t *testing.T) {
	clearEnv(t)
	dir := writeStore(t, `{"2026-10-19": {"date": "2026-10-19"}}`)
	logPath := filepath.Join(t.TempDir(), "scrape.log")

	st := &rootState{}
	cmd := newRootCmd(st)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"show", "--data-dir", dir, "--store", "headlines", "--log-file", logPath})

	err := run(st, cmd)

	assert.ErrorIs(t, err, storage.ErrStoreCorrupt)
	assert.Nil(t, st.logFile, "log file closed after a failed command")
	data, readErr := os.ReadFile(logPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "Run failed")
	assert.NoError(t, st.closeLog())
}

func TestScrapeCommand_FetchFailureExitsCleanly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "data")

	_, err := runCLI(t, "scrape", "--data-dir", dir, "--url", server.URL)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no store file after a failed fetch")
}

func TestChartCommand(t *testing.T) {
	dir := writeStore(t, sampleStore)
	outFile := filepath.Join(t.TempDir(), "chart.html")

	_, err := runCLI(t, "chart", "--data-dir", dir, "--store", "headlines", "--out", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2026-10-18")
}

func TestInvalidConfig(t *testing.T) {
	_, err := runCLI(t, "show", "--store", "../escape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
