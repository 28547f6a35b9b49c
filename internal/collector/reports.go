package collector

import "time"

// RuntimeInfo es la información básica de runtime de un nodo.
// El collector la guarda por aplicación y la refresca después de cada acción.
type RuntimeInfo struct {
	Host               string    `json:"host"`
	PID                int       `json:"pid,omitempty"`
	StartedAt          time.Time `json:"startedAt,omitempty"`
	RuntimeVersion     string    `json:"runtimeVersion,omitempty"`
	ServerInfo         string    `json:"serverInfo,omitempty"`
	ContextPath        string    `json:"contextPath,omitempty"`
	UsedMemoryBytes    int64     `json:"usedMemoryBytes"`
	MaxMemoryBytes     int64     `json:"maxMemoryBytes"`
	SessionCount       int       `json:"sessionCount"`
	ActiveThreadCount  int       `json:"activeThreadCount"`
	SystemLoadAverage  float64   `json:"systemLoadAverage,omitempty"`
	AvailableProcessor int       `json:"availableProcessors,omitempty"`
}

// Session describe una sesión HTTP viva en un nodo.
type Session struct {
	ID                  string    `json:"id"`
	LastAccess          time.Time `json:"lastAccess"`
	CreatedAt           time.Time `json:"createdAt"`
	ExpiresAt           time.Time `json:"expiresAt"`
	AttributeCount      int       `json:"attributeCount"`
	SerializedSizeBytes int64     `json:"serializedSizeBytes"`
	RemoteAddr          string    `json:"remoteAddr,omitempty"`
	RemoteUser          string    `json:"remoteUser,omitempty"`
	Country             string    `json:"country,omitempty"`
}

// SessionLookup es el resultado de buscar una sesión por ID en el cluster.
// Found=false significa sesión expirada o invalidada; no es un error.
type SessionLookup struct {
	Session *Session `json:"session,omitempty"`
	Found   bool     `json:"found"`
}

// Process es un proceso del sistema operativo reportado por un nodo.
type Process struct {
	User          string  `json:"user"`
	PID           int     `json:"pid"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemPercent    float64 `json:"memPercent"`
	VirtualSizeKB int64   `json:"vszKb"`
	ResidentKB    int64   `json:"rssKb"`
	TTY           string  `json:"tty,omitempty"`
	State         string  `json:"state,omitempty"`
	Start         string  `json:"start,omitempty"`
	CPUTime       string  `json:"cpuTime,omitempty"`
	Command       string  `json:"command"`
}

// NodeProcesses agrupa los procesos de un nodo, etiquetados con su host:port.
type NodeProcesses struct {
	Node      string    `json:"node"`
	Processes []Process `json:"processes"`
}

// ActionResult es la respuesta de un nodo a una acción difundida.
type ActionResult struct {
	Message string `json:"message,omitempty"`
}
