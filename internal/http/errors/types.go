package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError es el error estándar de la capa HTTP.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa, solo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Text es el mensaje visible: Message, o "Message: Detail" si hay detalle.
func (e *AppError) Text() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// New crea un nuevo AppError.
func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// Wrap crea un AppError envolviendo un error existente.
func Wrap(err error, status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// FromError devuelve el *AppError de la cadena de err, o un 500 con err como causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail devuelve una COPIA con el detalle dado.
func (e *AppError) WithDetail(detail string) *AppError {
	n := *e
	n.Detail = detail
	return &n
}

// WithCause devuelve una COPIA con la causa dada.
func (e *AppError) WithCause(err error) *AppError {
	n := *e
	n.Err = err
	return &n
}

// =================================================================================
// ERRORES PREDEFINIDOS
// =================================================================================

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrMissingFields: registro sin appName o appUrls.
	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Faltan campos requeridos: appName y appUrls.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInvalidURLFormat: appUrls sin esquema http(s).
	ErrInvalidURLFormat = &AppError{
		Code:       "INVALID_URL_FORMAT",
		Message:    "Las URLs deben comenzar por http:// o https://.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidParameter = &AppError{
		Code:       "INVALID_PARAMETER",
		Message:    "Uno de los parámetros de la URL o Query String es inválido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrUnknownAction = &AppError{
		Code:       "UNKNOWN_ACTION",
		Message:    "Acción desconocida.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrAccessDenied = &AppError{
		Code:       "ACCESS_DENIED",
		Message:    "Forbidden access",
		HTTPStatus: http.StatusForbidden,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Aplicación no registrada.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Método no permitido.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error inesperado en el servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrDataUnavailable: la aplicación seleccionada aún no tiene datos de sus nodos.
	ErrDataUnavailable = &AppError{
		Code:       "DATA_UNAVAILABLE",
		Message:    "Data unavailable for the application",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrRemoteFetchFailed: un nodo no respondió o respondió con error.
	// Los reportes lo muestran inline; la API de gestión lo devuelve como 502.
	ErrRemoteFetchFailed = &AppError{
		Code:       "REMOTE_FETCH_FAILED",
		Message:    "Falló la consulta a un nodo.",
		HTTPStatus: http.StatusBadGateway,
	}
)
