// Package metrics define las métricas Prometheus del collector.
// Viven en un paquete aparte para evitar ciclos entre fetch, services y http.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	NodeFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_node_fetch_total",
		Help: "Llamadas a nodos por parte y resultado",
	}, []string{"part", "result"}) // result: ok|error

	NodeFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collector_node_fetch_duration_seconds",
		Help:    "Latencia de las llamadas a nodos",
		Buckets: prometheus.DefBuckets,
	}, []string{"part"})

	ActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_actions_total",
		Help: "Acciones ejecutadas por tipo y resultado",
	}, []string{"action", "result"})

	AccessDeniedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collector_access_denied_total",
		Help: "Requests rechazados por el filtro de direcciones",
	})

	Applications = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "collector_applications",
		Help: "Aplicaciones registradas",
	})
)

// Register registra las métricas del collector en reg (o el default si es nil).
// Ignora duplicados para que sea idempotente en tests.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		NodeFetchTotal,
		NodeFetchDuration,
		ActionsTotal,
		AccessDeniedTotal,
		Applications,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPInflight,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// ObserveFetch registra una llamada a un nodo.
func ObserveFetch(part string, start time.Time, err error) {
	if part == "" {
		part = "default"
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	NodeFetchTotal.WithLabelValues(part, result).Inc()
	NodeFetchDuration.WithLabelValues(part).Observe(time.Since(start).Seconds())
}

// ObserveAction registra el resultado de una acción.
func ObserveAction(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ActionsTotal.WithLabelValues(action, result).Inc()
}
