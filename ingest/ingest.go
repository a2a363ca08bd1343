// Package ingest turns scouting submission files into stored records. A
// failing file is reported on its own result and never stops a batch.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reef-scout/metrics"
	"reef-scout/scouting"
)

// SubmissionExt is the extension of scouting submission files.
const SubmissionExt = ".txt"

// Store is the part of the record store ingestion writes to.
type Store interface {
	UpsertRecord(ctx context.Context, rec scouting.Record) (replaced bool, err error)
}

// Invalidator is told when stored records change.
type Invalidator interface {
	Invalidate()
}

// Result is the outcome of ingesting one submission.
type Result struct {
	File     string `json:"file"`
	Match    int    `json:"match,omitempty"`
	Team     int    `json:"team,omitempty"`
	Replaced bool   `json:"replaced,omitempty"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}

// OK reports whether the submission was stored.
func (r Result) OK() bool { return r.Err == nil }

// Rejected reports whether the submission itself was unusable, as opposed to
// the store failing.
func (r Result) Rejected() bool { return errors.Is(r.Err, scouting.ErrMissingIdentity) }

// Ingester parses and stores scouting submissions.
type Ingester struct {
	store       Store
	log         *zap.Logger
	metrics     *metrics.Registry
	invalidator Invalidator
	concurrency int
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithLogger sets the logger. The default discards logs.
func WithLogger(l *zap.Logger) Option {
	return func(i *Ingester) {
		if l != nil {
			i.log = l
		}
	}
}

// WithMetrics records ingestion counters on m.
func WithMetrics(m *metrics.Registry) Option {
	return func(i *Ingester) { i.metrics = m }
}

// WithInvalidator notifies inv after every stored record.
func WithInvalidator(inv Invalidator) Option {
	return func(i *Ingester) { i.invalidator = inv }
}

// WithConcurrency bounds how many files of a batch are processed at once.
func WithConcurrency(n int) Option {
	return func(i *Ingester) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// New returns an Ingester writing to store.
func New(store Store, opts ...Option) *Ingester {
	i := &Ingester{
		store:       store,
		log:         zap.NewNop(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest parses one submission read from r and stores it. name labels the
// submission in the result and logs.
func (i *Ingester) Ingest(ctx context.Context, name string, r io.Reader) Result {
	rec, err := prepare(r)
	if err != nil {
		return i.fail(Result{File: name}, err)
	}
	return i.commit(ctx, name, rec)
}

// prepare parses and validates a submission.
func prepare(r io.Reader) (scouting.Record, error) {
	rec, err := scouting.Parse(r)
	if err != nil {
		return rec, err
	}
	return rec, rec.Validate()
}

func prepareFile(path string) (scouting.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return scouting.Record{}, fmt.Errorf("open submission: %w", err)
	}
	defer f.Close()
	return prepare(f)
}

func (i *Ingester) commit(ctx context.Context, name string, rec scouting.Record) Result {
	res := Result{File: name, Match: rec.MatchNum, Team: rec.TeamNum}

	replaced, err := i.store.UpsertRecord(ctx, rec)
	if err != nil {
		return i.fail(res, err)
	}
	res.Replaced = replaced

	if i.invalidator != nil {
		i.invalidator.Invalidate()
	}
	if i.metrics != nil {
		i.metrics.IngestFilesTotal.WithLabelValues("ok").Inc()
		op := "insert"
		if replaced {
			op = "replace"
		}
		i.metrics.RecordsUpsertsTotal.WithLabelValues(op).Inc()
	}
	i.log.Info("imported scouting submission",
		zap.String("file", name),
		zap.Int("match", rec.MatchNum),
		zap.Int("team", rec.TeamNum),
		zap.Bool("replaced", replaced),
	)
	return res
}

func (i *Ingester) fail(res Result, err error) Result {
	res.Err = err
	res.Error = err.Error()

	label := "error"
	if res.Rejected() {
		label = "rejected"
		i.log.Warn("rejected scouting submission", zap.String("file", res.File), zap.Error(err))
	} else {
		i.log.Error("failed to import scouting submission", zap.String("file", res.File), zap.Error(err))
	}
	if i.metrics != nil {
		i.metrics.IngestFilesTotal.WithLabelValues(label).Inc()
	}
	return res
}

// IngestFile ingests the submission stored at path.
func (i *Ingester) IngestFile(ctx context.Context, path string) Result {
	name := filepath.Base(path)
	rec, err := prepareFile(path)
	if err != nil {
		return i.fail(Result{File: name}, err)
	}
	return i.commit(ctx, name, rec)
}

// IngestFiles ingests every path and returns one result per path, in input
// order. Files are parsed concurrently but stored in input order, so when
// two files carry the same match and team the later path wins.
func (i *Ingester) IngestFiles(ctx context.Context, paths []string) []Result {
	type parsed struct {
		rec scouting.Record
		err error
	}
	prepared := make([]parsed, len(paths))

	var g errgroup.Group
	g.SetLimit(i.concurrency)
	for idx, path := range paths {
		g.Go(func() error {
			rec, err := prepareFile(path)
			prepared[idx] = parsed{rec: rec, err: err}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]Result, len(paths))
	for idx, path := range paths {
		name := filepath.Base(path)
		if p := prepared[idx]; p.err != nil {
			results[idx] = i.fail(Result{File: name}, p.err)
			continue
		}
		results[idx] = i.commit(ctx, name, prepared[idx].rec)
	}
	return results
}

// ReloadDir re-ingests every submission file in dir, in name order. A missing
// dir is not an error.
func (i *Ingester) ReloadDir(ctx context.Context, dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), SubmissionExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	i.log.Info("reloading scouting submissions", zap.String("dir", dir), zap.Int("files", len(paths)))
	return i.IngestFiles(ctx, paths), nil
}

// Summarize counts stored and failed results.
func Summarize(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
