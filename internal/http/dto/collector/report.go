// Package collector contiene los DTOs de las respuestas del collector.
package collector

import (
	domain "github.com/dropDatabas3/collector/internal/collector"
)

// Report es el sobre JSON de cualquier reporte agregado.
// Los campos vacíos se omiten según la parte pedida.
type Report struct {
	Application string   `json:"application"`
	Part        string   `json:"part"`
	Period      string   `json:"period,omitempty"`
	Nodes       []string `json:"nodes"`

	// Message muestra errores de nodos, validaciones o el resultado de una acción,
	// sin abortar la respuesta.
	Message string `json:"message,omitempty"`

	Runtime       []domain.RuntimeInfo   `json:"runtime,omitempty"`
	Sessions      []domain.Session       `json:"sessions,omitempty"`
	Session       *SessionLookup         `json:"session,omitempty"`
	HeapHistogram *domain.HeapHistogram  `json:"heapHistogram,omitempty"`
	Processes     []domain.NodeProcesses `json:"processes,omitempty"`
	Counters      map[string]int64       `json:"counters,omitempty"`
}

// SessionLookup es el resultado de buscar una sesión por id.
// Found=false representa una sesión expirada o invalidada.
type SessionLookup struct {
	ID      string          `json:"id"`
	Found   bool            `json:"found"`
	Session *domain.Session `json:"detail,omitempty"`
}
