package scheduler

import "github.com/rs/zerolog"

// Option configures a Scheduler at construction time. If left unset,
// defaults are used.
type Option func(s *Scheduler)

// WithLogger overrides the scheduler's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithMetricsLabel sets the label attached to this scheduler's metric
// series, distinguishing multiple schedulers (e.g. one per wallet) scraped
// from the same process.
func WithMetricsLabel(label string) Option {
	return func(s *Scheduler) {
		s.metricsLabel = label
	}
}

const defaultMetricsLabel = "default"
