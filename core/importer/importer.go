package importer

import (
	"context"
	"errors"
	"fmt"

	"portal-migrate/core/batch"
	"portal-migrate/core/identity"
	"portal-migrate/core/purge"
	"portal-migrate/core/sanitize"

	"go.uber.org/zap"
)

// DuplicateError marks a record superseded by a later record with the same key.
type DuplicateError struct {
	Key          string
	SupersededBy int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate key %q, superseded by record %d", e.Key, e.SupersededBy)
}

// Options control one import run.
type Options struct {
	// Collection names the target of array input, or selects one collection
	// from object input.
	Collection string
	// Purge deletes each collection before importing it.
	Purge bool
	// DryRun prepares everything but writes nothing.
	DryRun bool
}

// CollectionReport is the outcome for one collection.
type CollectionReport struct {
	Collection string
	Records    int
	// Planned counts records that resolved to a key and would be written.
	Planned  int
	Purged   int
	PurgeErr error
	batch.Report
}

// Report is the outcome of an import run.
type Report struct {
	DryRun      bool
	Collections []CollectionReport
}

// Totals sums the write reports of every collection.
func (r *Report) Totals() batch.Report {
	var total batch.Report
	for _, c := range r.Collections {
		total.Add(c.Report)
	}
	return total
}

// Purged sums purged documents.
func (r *Report) Purged() int {
	n := 0
	for _, c := range r.Collections {
		n += c.Purged
	}
	return n
}

// Err reports failed purges and failed chunks. Skipped records are not errors.
func (r *Report) Err() error {
	var errs []error
	for _, c := range r.Collections {
		if c.PurgeErr != nil {
			errs = append(errs, c.PurgeErr)
		}
		if err := c.Report.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Collection, err))
		}
	}
	return errors.Join(errs...)
}

// Importer runs imports.
type Importer struct {
	writer    *batch.Writer
	purger    *purge.Coordinator
	sanitizer *sanitize.Sanitizer
	chains    identity.Chains
	logger    *zap.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithPurger enables Options.Purge.
func WithPurger(p *purge.Coordinator) Option {
	return func(im *Importer) { im.purger = p }
}

// WithSanitizer replaces the default sanitizer.
func WithSanitizer(s *sanitize.Sanitizer) Option {
	return func(im *Importer) { im.sanitizer = s }
}

// WithChains sets per-collection identifier chains.
func WithChains(c identity.Chains) Option {
	return func(im *Importer) { im.chains = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// New creates an importer writing through writer.
func New(writer *batch.Writer, opts ...Option) *Importer {
	im := &Importer{
		writer:    writer,
		sanitizer: sanitize.New(sanitize.Options{}),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Run reads src and imports it.
func (im *Importer) Run(ctx context.Context, src Source, opts Options) (*Report, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	im.logger.Info("Input loaded", zap.String("source", src.String()), zap.Int("bytes", len(data)))
	return im.Import(ctx, data, opts)
}

// Import parses data and imports every collection in input order. The
// returned error is only set for fatal problems; check Report.Err for
// partial failures.
func (im *Importer) Import(ctx context.Context, data []byte, opts Options) (*Report, error) {
	collections, err := Parse(data, opts.Collection)
	if err != nil {
		return nil, err
	}
	if opts.Purge && im.purger == nil {
		return nil, errors.New("purge requested but no purge coordinator configured")
	}

	report := &Report{DryRun: opts.DryRun}
	for _, col := range collections {
		report.Collections = append(report.Collections, im.importCollection(ctx, col, opts))
	}
	return report, nil
}

func (im *Importer) importCollection(ctx context.Context, col Collection, opts Options) CollectionReport {
	cr := CollectionReport{Collection: col.Name, Records: len(col.Records)}
	log := im.logger.With(zap.String("collection", col.Name))

	if opts.Purge {
		n, err := im.purger.Run(ctx, col.Name, purge.Options{DryRun: opts.DryRun})
		cr.Purged = n
		if err != nil {
			cr.PurgeErr = err
			log.Error("Purge failed, collection not reimported", zap.Error(err))
			return cr
		}
	}

	results := im.prepare(col)
	for _, res := range results {
		if res.Err == nil {
			cr.Planned++
		}
	}

	if opts.DryRun {
		for _, res := range results {
			if res.Err != nil {
				cr.Skipped = append(cr.Skipped, batch.Skip{Index: res.Index, Reason: res.Err.Error(), Err: res.Err})
			}
		}
		log.Info("Dry run, nothing written",
			zap.Int("records", cr.Records),
			zap.Int("planned", cr.Planned),
			zap.Int("skipped", len(cr.Skipped)),
		)
		return cr
	}

	cr.Report = im.writer.WriteAll(ctx, results)
	log.Info("Collection imported",
		zap.Int("records", cr.Records),
		zap.Int("written", cr.Written),
		zap.Int("skipped", len(cr.Skipped)),
		zap.Int("failed", cr.FailedRecords()),
		zap.Int("batches", cr.Chunks),
	)
	return cr
}

// prepare sanitizes and keys every record. Earlier records sharing a key with
// a later one are turned into skips.
func (im *Importer) prepare(col Collection) []batch.Result {
	chain := im.chains.For(col.Name)
	results := make([]batch.Result, 0, len(col.Records))
	seen := make(map[string]int, len(col.Records))

	for i, rec := range col.Records {
		clean := im.sanitizer.Record(rec)
		key, err := identity.Resolve(clean, chain)
		if err != nil {
			results = append(results, batch.Fail(i, err))
			continue
		}
		if prev, dup := seen[key]; dup {
			results[prev] = batch.Fail(results[prev].Index, &DuplicateError{Key: key, SupersededBy: i})
		}
		seen[key] = len(results)
		results = append(results, batch.OK(i, batch.Operation{
			Kind:       batch.OpSet,
			Collection: col.Name,
			Key:        key,
			Data:       clean,
		}))
	}
	return results
}
