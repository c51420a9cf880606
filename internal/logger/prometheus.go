package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	statements     *prometheus.CounterVec //nolint:gochecknoglobals
	statementsOnce sync.Once              //nolint:gochecknoglobals
)

// LevelCounter is a zerolog hook counting log statements per level.
type LevelCounter struct {
	vec *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h LevelCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || h.vec == nil {
		return
	}

	h.vec.WithLabelValues(level.String()).Inc()
}

// NewLevelCounter registers log_statements_total on first use. The service label
// is fixed by the first caller; later calls share the collector.
func NewLevelCounter(service string) LevelCounter {
	statementsOnce.Do(func() {
		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_statements_total",
				Help:        "Number of log statements, differentiated by log level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	})

	return LevelCounter{vec: statements}
}
