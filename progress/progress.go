// Package progress reports ingestion progress while a loader walks
// thousands of small descriptor files. Reporting is best-effort and never
// a correctness concern; loaders keep working if a reporter does nothing.
package progress

import "log/slog"

// Reporter receives ingestion progress events.
// Implementations must not block the loader for long.
type Reporter interface {
	// Start announces a run over total units (sequences) with a label.
	Start(label string, total int)
	// Step announces completion of one unit.
	Step(name string)
	// Done announces the end of the run.
	Done()
}

// NoopReporter discards all progress events.
// Use this when progress reporting is not needed.
type NoopReporter struct{}

func (NoopReporter) Start(string, int) {}
func (NoopReporter) Step(string)       {}
func (NoopReporter) Done()             {}

// SlogReporter logs progress through a structured logger.
type SlogReporter struct {
	logger *slog.Logger
	label  string
	total  int
	done   int
}

// NewSlogReporter creates a Reporter that logs each step at debug level and
// run boundaries at info level. If logger is nil, slog.Default is used.
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogReporter{logger: logger}
}

func (r *SlogReporter) Start(label string, total int) {
	r.label = label
	r.total = total
	r.done = 0
	r.logger.Info("ingestion started", "label", label, "sequences", total)
}

func (r *SlogReporter) Step(name string) {
	r.done++
	r.logger.Debug("sequence ingested", "label", r.label, "sequence", name, "done", r.done, "total", r.total)
}

func (r *SlogReporter) Done() {
	r.logger.Info("ingestion finished", "label", r.label, "sequences", r.done)
}
