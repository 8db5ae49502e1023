package guard

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics contains the Prometheus collectors for the guard. Collectors are
// registered once per process; every Guard shares the same set.
type metrics struct {
	enforcementDecisions *prometheus.CounterVec
	policyReloads        *prometheus.CounterVec
	auditRecords         *prometheus.CounterVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *metrics
)

// guardMetrics returns the process-wide collector set, registering it on
// first use.
func guardMetrics() *metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &metrics{
			enforcementDecisions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "warden_enforcement_decisions_total",
					Help: "Total number of pre-deployment enforcement decisions",
				},
				[]string{"result", "stage"},
			),

			policyReloads: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "warden_policy_reloads_total",
					Help: "Total number of policy reload attempts",
				},
				[]string{"result"},
			),

			auditRecords: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "warden_audit_records_total",
					Help: "Total number of audit records written",
				},
				[]string{"action"},
			),
		}
	})
	return sharedMetrics
}
