package exports

import "github.com/prometheus/client_golang/prometheus"

var (
	exportsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dshare",
		Subsystem: "server",
		Name:      "exports",
		Help:      "Number of entries in the exports file.",
	})

	exportOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dshare",
		Subsystem: "server",
		Name:      "export_ops_total",
		Help:      "Total export add/remove operations by type and status.",
	}, []string{"operation", "status"})
)

func init() {
	prometheus.MustRegister(exportsGauge, exportOpsTotal)
}
