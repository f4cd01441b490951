package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/elonfeng/bullhorn/internal/config"
	"github.com/elonfeng/bullhorn/internal/logger"
	"github.com/elonfeng/bullhorn/internal/store"
	"github.com/elonfeng/bullhorn/pkg/extract"
	"github.com/elonfeng/bullhorn/pkg/forum"
	"github.com/elonfeng/bullhorn/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPipelineEndToEnd drives collect and export against a mocked forum
// with two editions: one containing two contribution lines, one with
// none.
func TestPipelineEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/c/news-bullhorn/17/l/latest.json":
			if r.URL.Query().Get("page") == "0" {
				fmt.Fprint(w, `{"topic_list":{"topics":[
					{"id":1,"title":"Edition One","views":100,"like_count":5},
					{"id":2,"title":"Edition Two","views":40,"like_count":2}
				]}}`)
				return
			}
			fmt.Fprint(w, `{"topic_list":{"topics":[]}}`)
		case r.URL.Path == "/raw/1":
			fmt.Fprint(w, "# Edition One\n"+
				"[Alice](https://matrix.to/#/@alice:example.org) shared a collection update\n"+
				"nothing here\n"+
				"[Bob](https://matrix.to/#/@bob:example.org) contributed a fix\n")
		case r.URL.Path == "/raw/2":
			fmt.Fprint(w, "# Edition Two\nno contributions this time\n")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	log := logger.NewNop()

	st, err := store.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer st.Close()

	client := forum.NewClient(srv.URL, "news-bullhorn", 17, 5*time.Second, log)
	ex := extract.New(nil)

	ctx := context.Background()
	require.NoError(t, collect(ctx, client, ex, st, log))

	cfg := config.Default()
	cfg.Export.Dir = dir
	require.NoError(t, export(ctx, st, cfg, log, ""))

	views := readRows(t, filepath.Join(dir, report.ViewsFile))
	assert.Len(t, views, 2, "one row per edition")

	lines := readRows(t, filepath.Join(dir, report.LinesFile))
	require.Len(t, lines, 2, "one row per matching line")
	assert.Equal(t, []string{"1", "Edition One", "Alice", "https://matrix.to/#/@alice:example.org"}, lines[0])
	assert.Equal(t, []string{"1", "Edition One", "Bob", "https://matrix.to/#/@bob:example.org"}, lines[1])

	counts := readRows(t, filepath.Join(dir, report.UserCountFile))
	require.Len(t, counts, 1, "only the edition with matches appears")
	assert.Equal(t, []string{"1", "Edition One", "2"}, counts[0])

	totals := readRows(t, filepath.Join(dir, report.UserTotalsFile))
	sum := 0
	for _, row := range totals {
		n, err := strconv.Atoi(row[1])
		require.NoError(t, err)
		sum += n
	}
	assert.Equal(t, 2, sum, "per-user totals sum to the number of records")
}

// readRows returns the data rows of a CSV file, header dropped.
func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows, "missing header in %s", path)
	return rows[1:]
}
