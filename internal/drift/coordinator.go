package drift

import (
	"context"
	"errors"
	"time"

	"release-tracker/internal/logger"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run outcomes reported to the Observer.
const (
	OutcomeDrift       = "drift"
	OutcomeClean       = "clean"
	OutcomeFailed      = "failed"
	OutcomeInterrupted = "interrupted"
)

// Observer receives run statistics. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveRun(outcome string, duration time.Duration)
	ObserveLookupFailure(application string)
	ObserveDiscarded(application string, count int)
}

type nopObserver struct{}

func (nopObserver) ObserveRun(string, time.Duration) {}
func (nopObserver) ObserveLookupFailure(string)      {}
func (nopObserver) ObserveDiscarded(string, int)     {}

// AggregateReport is the joined result of one run, in catalog order.
type AggregateReport struct {
	Reports  []Report
	Failures []*StoreLookupError
}

// HasDrift reports whether any application is missing its latest version somewhere.
func (a *AggregateReport) HasDrift() bool {
	return len(a.Reports) > 0
}

// HasFailures reports whether any application could not be evaluated.
func (a *AggregateReport) HasFailures() bool {
	return len(a.Failures) > 0
}

// Coordinator evaluates every cataloged application concurrently and joins the results.
type Coordinator struct {
	store       ReleaseStore
	catalog     Catalog
	timeout     time.Duration
	concurrency int
	observer    Observer
	logger      *logrus.Entry
}

type Option func(*Coordinator)

// WithTimeout bounds a whole run. Zero disables the coordinator's own deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

// WithConcurrency limits concurrent store lookups. Zero or less runs one lookup per application at once.
func WithConcurrency(n int) Option {
	return func(c *Coordinator) { c.concurrency = n }
}

func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		if o != nil {
			c.observer = o
		}
	}
}

func NewCoordinator(store ReleaseStore, cat Catalog, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		catalog:  cat,
		observer: nopObserver{},
		logger:   logger.WithModule("drift"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type outcome struct {
	index    int
	analysis Analysis
	err      error
}

// Detect computes drift for every application in the catalog. Per-application
// store failures are returned in the report's Failures. If the deadline
// elapses or ctx is cancelled before every application finished, the partial
// report is returned with an *AggregationTimeoutError.
func (c *Coordinator) Detect(ctx context.Context) (*AggregateReport, error) {
	start := time.Now()
	apps := c.catalog.Applications()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.WithField("applications", len(apps)).Debug("Starting drift detection")

	// Buffered so workers never block once the collector has stopped listening.
	results := make(chan outcome, len(apps))
	go c.fanOut(ctx, apps, results)

	slots := make([]*outcome, len(apps))
	received := 0
collect:
	for received < len(apps) {
		select {
		case o := <-results:
			slots[o.index] = &o
			received++
		case <-ctx.Done():
			break collect
		}
	}

	report, err := c.join(ctx, apps, slots)
	c.finish(report, err, time.Since(start))
	return report, err
}

func (c *Coordinator) fanOut(ctx context.Context, apps []string, results chan<- outcome) {
	var g errgroup.Group
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}
	for i, app := range apps {
		i, app := i, app
		g.Go(func() error {
			results <- c.evaluate(ctx, i, app)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Coordinator) evaluate(ctx context.Context, index int, app string) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{index: index, err: &StoreLookupError{Application: app, Err: err}}
	}

	if txn := newrelic.FromContext(ctx); txn != nil {
		ctx = newrelic.NewContext(ctx, txn.NewGoroutine())
	}
	seg := newrelic.FromContext(ctx).StartSegment("drift/FetchReleases")
	records, err := c.store.FetchReleases(ctx, app)
	seg.End()
	if err != nil {
		return outcome{index: index, err: &StoreLookupError{Application: app, Err: err}}
	}

	return outcome{index: index, analysis: Analyze(app, records, c.catalog.ExpectedCells(app))}
}

func (c *Coordinator) join(ctx context.Context, apps []string, slots []*outcome) (*AggregateReport, error) {
	report := &AggregateReport{}
	interrupted := ctx.Err()

	var completed, pending []string
	for i, app := range apps {
		o := slots[i]
		if o == nil || (interrupted != nil && isContextError(o.err)) {
			pending = append(pending, app)
			continue
		}
		completed = append(completed, app)

		if o.err != nil {
			var lookupErr *StoreLookupError
			if !errors.As(o.err, &lookupErr) {
				lookupErr = &StoreLookupError{Application: app, Err: o.err}
			}
			report.Failures = append(report.Failures, lookupErr)
			c.observer.ObserveLookupFailure(app)
			c.logger.WithFields(logrus.Fields{
				"application": app,
				"error":       o.err.Error(),
			}).Warn("Failed to fetch releases")
			continue
		}

		if n := len(o.analysis.Discarded); n > 0 {
			c.observer.ObserveDiscarded(app, n)
			c.logger.WithFields(logrus.Fields{
				"application": app,
				"discarded":   n,
				"versions":    o.analysis.Discarded,
			}).Warn("Discarded releases with invalid versions")
		}
		if o.analysis.Report != nil {
			report.Reports = append(report.Reports, *o.analysis.Report)
		}
	}

	if len(pending) > 0 {
		return report, &AggregationTimeoutError{
			Completed: completed,
			Pending:   pending,
			Partial:   report,
			Err:       interrupted,
		}
	}
	return report, nil
}

func (c *Coordinator) finish(report *AggregateReport, err error, elapsed time.Duration) {
	var outcomeName string
	switch {
	case err != nil:
		outcomeName = OutcomeInterrupted
	case report.HasDrift():
		outcomeName = OutcomeDrift
	case report.HasFailures():
		outcomeName = OutcomeFailed
	default:
		outcomeName = OutcomeClean
	}
	c.observer.ObserveRun(outcomeName, elapsed)

	entry := c.logger.WithFields(logrus.Fields{
		"outcome":  outcomeName,
		"drifting": len(report.Reports),
		"failed":   len(report.Failures),
		"duration": elapsed.String(),
	})
	var timeoutErr *AggregationTimeoutError
	if errors.As(err, &timeoutErr) {
		entry.WithField("pending", timeoutErr.Pending).Error("Drift detection did not complete")
		return
	}
	entry.Info("Drift detection completed")
}

func isContextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
