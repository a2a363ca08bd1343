package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reef-scout/metrics"
	"reef-scout/scouting"
)

type memStore struct {
	mu      sync.Mutex
	records map[[2]int]scouting.Record
	err     error
}

func newMemStore() *memStore {
	return &memStore{records: map[[2]int]scouting.Record{}}
}

func (m *memStore) UpsertRecord(_ context.Context, rec scouting.Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	key := [2]int{rec.MatchNum, rec.TeamNum}
	_, replaced := m.records[key]
	m.records[key] = rec
	return replaced, nil
}

type countingInvalidator struct {
	mu sync.Mutex
	n  int
}

func (c *countingInvalidator) Invalidate() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestIngestStoresRecord(t *testing.T) {
	store := newMemStore()
	inv := &countingInvalidator{}
	ing := New(store, WithInvalidator(inv))

	res := ing.Ingest(context.Background(), "q4.txt", strings.NewReader("MATCHNUM:4\nTEAMNUM:6238\nENDGAME:Deep\n"))
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, 4, res.Match)
	assert.Equal(t, 6238, res.Team)
	assert.False(t, res.Replaced)
	assert.Equal(t, "Deep", store.records[[2]int{4, 6238}].Endgame)
	assert.Equal(t, 1, inv.n)

	res = ing.Ingest(context.Background(), "q4-again.txt", strings.NewReader("MATCHNUM:4\nTEAMNUM:6238\n"))
	require.True(t, res.OK())
	assert.True(t, res.Replaced)
	assert.Equal(t, "", store.records[[2]int{4, 6238}].Endgame)
}

func TestIngestRejectsMissingIdentity(t *testing.T) {
	store := newMemStore()
	ing := New(store)

	res := ing.Ingest(context.Background(), "bad.txt", strings.NewReader("TEAMNUM:6238\nNOTES:forgot match\n"))
	assert.False(t, res.OK())
	assert.True(t, res.Rejected())
	assert.ErrorIs(t, res.Err, scouting.ErrMissingIdentity)
	assert.Contains(t, res.Error, "MATCHNUM")
	assert.Empty(t, store.records)
}

func TestIngestStoreFailureIsNotRejection(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("database is locked")
	inv := &countingInvalidator{}
	ing := New(store, WithInvalidator(inv))

	res := ing.Ingest(context.Background(), "q1.txt", strings.NewReader("MATCHNUM:1\nTEAMNUM:1\n"))
	assert.False(t, res.OK())
	assert.False(t, res.Rejected())
	assert.Equal(t, 1, res.Match)
	assert.Equal(t, 0, inv.n)
}

func TestIngestFilesContinuesPastBadFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "MATCHNUM:2\nTEAMNUM:254\nTELECORAL4:3\n")
	bad := writeFile(t, dir, "bad.txt", "TEAMNUM:971\n")
	missing := filepath.Join(dir, "gone.txt")

	store := newMemStore()
	reg := metrics.New(prometheus.NewRegistry())
	ing := New(store, WithConcurrency(4), WithMetrics(reg))

	results := ing.IngestFiles(context.Background(), []string{bad, good, missing})
	require.Len(t, results, 3)

	assert.Equal(t, "bad.txt", results[0].File)
	assert.True(t, results[0].Rejected())
	assert.Equal(t, "good.txt", results[1].File)
	assert.True(t, results[1].OK())
	assert.Equal(t, "gone.txt", results[2].File)
	assert.False(t, results[2].OK())
	assert.False(t, results[2].Rejected())

	require.Len(t, store.records, 1)
	assert.Equal(t, 3, store.records[[2]int{2, 254}].TeleCoral4)

	ok, failed := Summarize(results)
	assert.Equal(t, 1, ok)
	assert.Equal(t, 2, failed)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.IngestFilesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.IngestFilesTotal.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.IngestFilesTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.RecordsUpsertsTotal.WithLabelValues("insert")))
}

func TestIngestFilesLaterPathWins(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.txt", "MATCHNUM:9\nTEAMNUM:118\nNOTES:first\n")
	second := writeFile(t, dir, "b.txt", "MATCHNUM:9\nTEAMNUM:118\nNOTES:second\n")

	store := newMemStore()
	ing := New(store, WithConcurrency(8))

	results := ing.IngestFiles(context.Background(), []string{first, second})
	assert.False(t, results[0].Replaced)
	assert.True(t, results[1].Replaced)
	assert.Equal(t, "second", store.records[[2]int{9, 118}].Notes)
}

func TestReloadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m1_t1.txt", "MATCHNUM:1\nTEAMNUM:1\n")
	writeFile(t, dir, "m1_t2.TXT", "MATCHNUM:1\nTEAMNUM:2\n")
	writeFile(t, dir, "readme.md", "MATCHNUM:1\nTEAMNUM:3\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	store := newMemStore()
	ing := New(store)

	results, err := ing.ReloadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "m1_t1.txt", results[0].File)
	assert.Equal(t, "m1_t2.TXT", results[1].File)
	assert.Len(t, store.records, 2)
}

func TestReloadDirMissing(t *testing.T) {
	ing := New(newMemStore())

	results, err := ing.ReloadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, results)
}
