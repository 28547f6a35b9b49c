package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/dropDatabas3/collector/internal/http/errors"
	"github.com/dropDatabas3/collector/internal/metrics"
	"github.com/dropDatabas3/collector/internal/observability/logger"
)

// AllowedAddrConfig configura el filtro de direcciones.
type AllowedAddrConfig struct {
	// Pattern RE2 que debe matchear la IP completa. Vacío = sin filtro.
	Pattern string
	// TrustForwardedFor usa el primer hop de X-Forwarded-For.
	TrustForwardedFor bool
}

// WithAllowedAddr rechaza con 403 (texto plano) a todo cliente cuya IP no
// matchee el patrón. Corre antes que cualquier lógica del collector.
func WithAllowedAddr(cfg AllowedAddrConfig) (Middleware, error) {
	if strings.TrimSpace(cfg.Pattern) == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	re, err := compileFullMatch(cfg.Pattern)
	if err != nil {
		return nil, err
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := clientAddr(r, cfg.TrustForwardedFor)
			if !re.MatchString(addr) {
				metrics.AccessDeniedTotal.Inc()
				logger.From(r.Context()).Warn("access denied",
					logger.Layer("middleware"),
					logger.ClientIP(addr),
				)
				errors.WritePlain(w, errors.ErrAccessDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// compileFullMatch ancla el patrón para exigir match completo.
func compileFullMatch(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("allowed addr pattern: %w", err)
	}
	return re, nil
}

func clientAddr(r *http.Request, trustXFF bool) string {
	if trustXFF {
		if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
			first, _, _ := strings.Cut(xf, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
