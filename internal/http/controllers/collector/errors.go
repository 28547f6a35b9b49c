package collector

import (
	"errors"
	"net/http"
	"strings"

	domain "github.com/dropDatabas3/collector/internal/collector"
	httperrors "github.com/dropDatabas3/collector/internal/http/errors"
	"github.com/dropDatabas3/collector/internal/registry"
)

// mapError traduce errores de dominio a AppError.
func mapError(err error) *httperrors.AppError {
	var appErr *httperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case domain.IsFetchError(err):
		return httperrors.ErrRemoteFetchFailed.WithDetail(err.Error()).WithCause(err)
	case errors.Is(err, domain.ErrUnknownAction):
		return httperrors.ErrUnknownAction.WithDetail(err.Error()).WithCause(err)
	case errors.Is(err, registry.ErrNotFound):
		return httperrors.ErrNotFound.WithDetail(err.Error()).WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}

// inlineMessage es el texto que se muestra en el campo message del reporte.
func inlineMessage(err error) string {
	return mapError(err).Text()
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
