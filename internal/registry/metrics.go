package registry

import "github.com/prometheus/client_golang/prometheus"

var memoryUsageMB = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "healthsignal",
	Subsystem: "registry",
	Name:      "memory_usage_mb",
	Help:      "Declared memory footprint of loaded models",
})

var modelsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "healthsignal",
	Subsystem: "registry",
	Name:      "models_loaded",
	Help:      "Number of models currently loaded",
})

func init() {
	prometheus.MustRegister(memoryUsageMB)
	prometheus.MustRegister(modelsLoaded)
}

// RegisterMetrics registers registry metrics with a custom registry.
// Use this when exposing a non-default registry.
func RegisterMetrics(reg prometheus.Registerer) {
	if reg == nil || reg == prometheus.DefaultRegisterer {
		return
	}
	reg.MustRegister(memoryUsageMB, modelsLoaded)
}
