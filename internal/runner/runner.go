// Package runner executes a scan: one parse job per (header, configuration)
// pair, each folding its translation unit into the shared database.
package runner

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"versioner/internal/declarations"
	"versioner/internal/logging"
)

// HeaderParser parses one header file into a translation unit.
type HeaderParser interface {
	ParseHeader(ctx context.Context, path string) (*declarations.TranslationUnit, error)
}

// ParserFactory creates a parser for one job. Jobs run concurrently and a
// parser is not safe for concurrent use, so each job gets its own.
type ParserFactory func() HeaderParser

// Job is one (header, configuration) parse.
type Job struct {
	ID     string
	Header string
	Type   declarations.CompilationType
}

// NewJobs builds the job list for the given headers under every
// configuration, in deterministic order, each with a fresh ID for log
// correlation.
func NewJobs(headers []string, types []declarations.CompilationType) []Job {
	jobs := make([]Job, 0, len(headers)*len(types))
	for _, header := range headers {
		for _, t := range types {
			jobs = append(jobs, Job{ID: uuid.New().String(), Header: header, Type: t})
		}
	}
	return jobs
}

// ListHeaders returns every .h file under root, sorted.
func ListHeaders(root string) ([]string, error) {
	var headers []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".h") {
			headers = append(headers, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(headers)
	return headers, nil
}

// Runner drives the parse workers.
type Runner struct {
	db          *declarations.Database
	newParser   ParserFactory
	logger      *logging.Logger
	parallelism int
}

// New creates a runner over the shared database.
func New(db *declarations.Database, factory ParserFactory, logger *logging.Logger, parallelism int) *Runner {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Runner{db: db, newParser: factory, logger: logger, parallelism: parallelism}
}

// Scan runs every job with bounded parallelism. Each job parses its header
// and calls Ingest exactly once. The first failure cancels the remaining
// jobs and is returned; database ingestion is serialized internally, so
// job completion order never affects the final content.
func (r *Runner) Scan(ctx context.Context, jobs []Job) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			r.logger.Debug("parsing header", map[string]interface{}{
				"job":    job.ID,
				"header": job.Header,
				"type":   job.Type.String(),
			})

			tu, err := r.newParser().ParseHeader(ctx, job.Header)
			if err != nil {
				r.logger.Error("parse failed", map[string]interface{}{
					"job":    job.ID,
					"header": job.Header,
					"type":   job.Type.String(),
					"error":  err.Error(),
				})
				return err
			}
			return r.db.Ingest(job.Type, tu)
		})
	}
	return g.Wait()
}
