package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRegisterLogging_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterLogging(reg))
	require.NoError(t, RegisterLogging(reg), "re-registering must tolerate AlreadyRegisteredError")

	LogRecordsTotal.WithLabelValues("info").Inc()
	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	require.True(t, names["log_records_total"])
}

func TestRegisterLogging_Conflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	// mismo nombre, distinto tipo: no es AlreadyRegistered, debe fallar
	clash := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "log_field_fallbacks_total",
		Help: "clash",
	})
	require.NoError(t, reg.Register(clash))
	require.Error(t, RegisterLogging(reg))
}

func TestRegisterHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterHTTP(reg))
	require.NoError(t, RegisterHTTP(reg))
	require.NoError(t, RegisterLogging(reg), "HTTP and logging collectors share a registry")
}
