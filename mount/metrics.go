package mount

import "github.com/prometheus/client_golang/prometheus"

var (
	mountOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dshare",
		Subsystem: "client",
		Name:      "mount_ops_total",
		Help:      "Total mount/unmount operations by type and status.",
	}, []string{"operation", "status"})

	mountDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dshare",
		Subsystem: "client",
		Name:      "mount_duration_seconds",
		Help:      "Mount/unmount operation duration in seconds.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"operation"})
)

func init() {
	prometheus.MustRegister(mountOpsTotal, mountDuration)
}
