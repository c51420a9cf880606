package activity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultUser     = "user"
	resultSystem   = "system"
	resultFallback = "fallback"
	resultDropped  = "dropped"
)

var records = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "activity_records_total",
		Help: "Number of activity entries by outcome (user, system, fallback, dropped).",
	},
	[]string{"result"},
)
