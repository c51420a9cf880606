package settings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperations = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "settings_store_operations_total",
			Help: "Number of settings store calls issued by saves, by operation and result.",
		},
		[]string{"operation", "result"},
	)

	saves = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "settings_saves_total",
			Help: "Number of settings saves, by strategy and result.",
		},
		[]string{"strategy", "result"},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
