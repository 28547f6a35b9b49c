package collector

// ApplicationItem describe una aplicación registrada.
type ApplicationItem struct {
	Name          string   `json:"name"`
	Nodes         []string `json:"nodes"`
	DataAvailable bool     `json:"dataAvailable"`
}

// ApplicationList es la respuesta de GET /applications.
type ApplicationList struct {
	Applications []ApplicationItem `json:"applications"`
}

// RegisterRequest son los campos del formulario de registro.
type RegisterRequest struct {
	AppName string // appName
	AppURLs string // appUrls, separadas por coma
}

// RegisterResponse se devuelve cuando el cliente pide JSON (CLI).
type RegisterResponse struct {
	Application ApplicationItem `json:"application"`
	Message     string          `json:"message"`
}
