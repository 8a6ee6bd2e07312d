package agent

import "github.com/prometheus/client_golang/prometheus"

var (
	activeExportsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dshare",
		Subsystem: "agent",
		Name:      "active_exports",
		Help:      "Number of path+client pairs in the kernel export table.",
	})

	reconcileResyncTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dshare",
		Subsystem: "agent",
		Name:      "reconcile_resync_total",
		Help:      "Times the reconciler re-exported after detecting drift.",
	})
)

func init() {
	prometheus.MustRegister(activeExportsGauge, reconcileResyncTotal)
}
