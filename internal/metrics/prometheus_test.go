package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CompositionsTotal.WithLabelValues("swap", "ok").Inc()
	m.CompositionsTotal.WithLabelValues("swap", "ok").Inc()
	m.CompositionsTotal.WithLabelValues("approve", "skipped").Inc()
	m.WSClients.Set(3)

	if got := testutil.ToFloat64(m.CompositionsTotal.WithLabelValues("swap", "ok")); got != 2 {
		t.Errorf("swap/ok compositions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CompositionsTotal.WithLabelValues("approve", "skipped")); got != 1 {
		t.Errorf("approve/skipped compositions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.WSClients); got != 3 {
		t.Errorf("ws clients = %v, want 3", got)
	}
}

func TestNew_SeparateRegistriesDoNotCollide(t *testing.T) {
	// Each New call must register against its own registry without panicking.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
