package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPayload indica que un nodo respondió algo que no se pudo interpretar.
	ErrUnknownPayload = errors.New("collector: unknown payload shape")

	// ErrUnknownAction indica un valor de action que no pertenece a la taxonomía.
	ErrUnknownAction = errors.New("collector: unknown action")

	// ErrSessionIDRequired indica una acción de sesión sin sessionId.
	ErrSessionIDRequired = errors.New("collector: sessionId required")
)

// FetchError describe una falla al consultar un nodo.
// Es terminal para el request en curso: no hay reintentos.
type FetchError struct {
	URL    string
	Status int // 0 si no hubo respuesta HTTP
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: http %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reporta si err (o alguno de sus wrapped) es un *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
