package helpers

import (
	"html/template"
	"net/http"
)

// WriteAlertRedirect responde con un script que muestra message y navega a location.
// Es la respuesta del collector tras registrar o remover una aplicación.
func WriteAlertRedirect(w http.ResponseWriter, message, location string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(AlertRedirectScript(message, location)))
}

// AlertRedirectScript arma el script con ambos valores escapados para JS.
func AlertRedirectScript(message, location string) string {
	return "<script type='text/javascript'>alert('" + template.JSEscapeString(message) +
		"');location.href='" + template.JSEscapeString(location) + "';</script>"
}
