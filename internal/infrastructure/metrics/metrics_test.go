package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.Operations == nil || m.Statements == nil || m.AccountBalance == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.Operations.WithLabelValues("deposit").Inc()
	m.Statements.WithLabelValues("ledger").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestNewWithSeparateRegistries(t *testing.T) {
	first := New(prometheus.NewRegistry())
	second := New(prometheus.NewRegistry())

	first.AccountBalance.Set(100)

	if got := testutil.ToFloat64(second.AccountBalance); got != 0 {
		t.Fatalf("expected registries to be independent, got %v", got)
	}
}

func TestReconciliationMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Reconciliations.WithLabelValues("consistent").Inc()
	m.LedgerDifference.Set(-25)

	if got := testutil.ToFloat64(m.Reconciliations.WithLabelValues("consistent")); got != 1 {
		t.Fatalf("expected 1 consistent reconciliation, got %v", got)
	}
	if got := testutil.ToFloat64(m.LedgerDifference); got != -25 {
		t.Fatalf("expected difference -25, got %v", got)
	}
}
