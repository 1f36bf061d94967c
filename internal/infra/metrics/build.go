package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(buildInfo) }

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A constant metric with labels for version and binary name.",
	},
	[]string{"version", "binary"},
)

func SetBuildInfo(version, binary string) {
	buildInfo.WithLabelValues(version, binary).Set(1)
}
