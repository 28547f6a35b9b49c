// Package health contiene DTOs para el endpoint de health check.
package health

import "time"

// HealthStatus representa el estado de un componente.
type HealthStatus struct {
	Status  string `json:"status"`            // "ok" | "error" | "disabled"
	Message string `json:"message,omitempty"`
}

// HealthResponse representa la respuesta de salud completa.
type HealthResponse struct {
	Status       string                  `json:"status"` // "ready" | "degraded" | "unavailable"
	Components   map[string]HealthStatus `json:"components"`
	Applications int                     `json:"applications"`
	Version      string                  `json:"version,omitempty"`
	Commit       string                  `json:"commit,omitempty"`
	Timestamp    time.Time               `json:"timestamp"`
}
