package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Logging pipeline metrics. Standalone package so the logger core can count records
// without importing any HTTP code.

var (
	LogRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "log_records_total",
		Help: "Registros de log emitidos, por nivel",
	}, []string{"level"})

	LogFieldFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "log_field_fallbacks_total",
		Help: "Campos extra que no serializaron a JSON y se degradaron a string",
	})

	LogSinkWriteErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "log_sink_write_errors_total",
		Help: "Escrituras fallidas en sinks de log",
	})
)

// RegisterLogging registers the logging metrics on the given registry (or default if nil).
func RegisterLogging(reg prometheus.Registerer) error {
	return register(reg, LogRecordsTotal, LogFieldFallbacksTotal, LogSinkWriteErrorsTotal)
}
