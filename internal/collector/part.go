package collector

import "strings"

// Part es el subtipo de reporte pedido en un request de solo lectura.
type Part string

const (
	PartDefault         Part = ""
	PartSessions        Part = "sessions"
	PartHeapHistogram   Part = "heaphisto"
	PartProcesses       Part = "processes"
	PartCurrentRequests Part = "currentRequests"
	PartWebXML          Part = "web.xml"
	PartPomXML          Part = "pom.xml"

	// PartRuntime es la parte que los nodos exponen con su información básica de runtime.
	// No se pide desde el cliente: la usa el collector para registrar y refrescar.
	PartRuntime Part = "runtime"
)

var clientParts = []Part{
	PartSessions,
	PartHeapHistogram,
	PartProcesses,
	PartCurrentRequests,
	PartWebXML,
	PartPomXML,
}

// ParsePart es case-insensitive. Valores desconocidos caen al reporte por defecto.
func ParsePart(s string) Part {
	s = strings.TrimSpace(s)
	for _, p := range clientParts {
		if strings.EqualFold(s, string(p)) {
			return p
		}
	}
	return PartDefault
}

// IsRawConfig reporta si la parte es un archivo de configuración que se proxya tal cual.
func (p Part) IsRawConfig() bool {
	return p == PartWebXML || p == PartPomXML
}

// String devuelve el código de la parte; "default" para el reporte por defecto.
func (p Part) String() string {
	if p == PartDefault {
		return "default"
	}
	return string(p)
}
