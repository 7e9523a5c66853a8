package main

import (
	"context"
	"fmt"
	"path/filepath"

	"versioner/internal/baseline"
	"versioner/internal/config"
	"versioner/internal/cparse"
	"versioner/internal/declarations"
	"versioner/internal/errors"
	"versioner/internal/logging"
	"versioner/internal/matrix"
	"versioner/internal/report"
	"versioner/internal/runner"
)

// scanResult is the outcome of one full pipeline run: parse every header
// under every configuration, ingest, then reduce.
type scanResult struct {
	db      *declarations.Database
	base    *baseline.Baseline
	report  *report.Report
	headers []string
}

// runScan executes the scan pipeline. Fatal ingest errors (authoring
// defects) propagate out immediately; reduction conflicts do not — they are
// enumerated in the report so one run surfaces all of them.
func runScan(ctx context.Context, cfg *config.Config, logger *logging.Logger, includeDecls bool) (*scanResult, error) {
	if !cparse.IsAvailable() {
		return nil, errors.New(errors.ParseFailed, "this binary was built without cgo; the C front end is unavailable")
	}

	m, err := matrix.Load(resolve(cfg.MatrixPath))
	if err != nil {
		return nil, err
	}
	base, err := baseline.Load(resolve(cfg.BaselinePath))
	if err != nil {
		return nil, err
	}

	db := declarations.NewDatabase()
	r := runner.New(db, func() runner.HeaderParser { return cparse.NewParser() }, logger, cfg.Parallelism)

	var jobs []runner.Job
	var allHeaders []string
	for _, root := range m.Headers {
		headers, err := runner.ListHeaders(resolve(root.Root))
		if err != nil {
			return nil, fmt.Errorf("listing headers under %s: %w", root.Root, err)
		}
		jobs = append(jobs, runner.NewJobs(headers, m.Configurations(root))...)
		allHeaders = append(allHeaders, headers...)
	}

	logger.Info("scanning", map[string]interface{}{
		"headers": len(allHeaders),
		"jobs":    len(jobs),
	})
	if err := r.Scan(ctx, jobs); err != nil {
		return nil, err
	}

	rep := report.Build(db, base, includeDecls)
	logger.Info("scan complete", map[string]interface{}{
		"symbols":   len(rep.Symbols),
		"conflicts": rep.Conflicts,
	})
	return &scanResult{db: db, base: base, report: rep, headers: allHeaders}, nil
}

// resolve interprets a config-relative path against the project root.
func resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootFlag, path)
}
