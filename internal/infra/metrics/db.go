package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(pgPoolConns) }

var pgPoolConns = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "pg_pool_connections",
		Help: "Postgres pool connections by state (max, total, idle, acquired).",
	},
	[]string{"state"},
)

// SetDBPoolStats is fed by the bootstrap ticker from pgxpool.Stat.
func SetDBPoolStats(maxConns, total, idle, acquired int32) {
	pgPoolConns.WithLabelValues("max").Set(float64(maxConns))
	pgPoolConns.WithLabelValues("total").Set(float64(total))
	pgPoolConns.WithLabelValues("idle").Set(float64(idle))
	pgPoolConns.WithLabelValues("acquired").Set(float64(acquired))
}
