package middlewares

import "net/http"

// WithNoCache agrega Cache-Control: no-cache. Todos los reportes del collector
// son datos en vivo de los nodos.
func WithNoCache() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			next.ServeHTTP(w, r)
		})
	}
}
