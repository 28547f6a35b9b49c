package collector

import "time"

// TokenStore abstrae la persistencia de la selección pegajosa de aplicación
// del lado del cliente. La implementación HTTP usa una cookie.
type TokenStore interface {
	// Current devuelve la aplicación guardada, si hay una.
	Current() (string, bool)
	// Persist guarda name con la ventana de validez dada.
	Persist(name string, validity time.Duration)
	// Clear expira el token inmediatamente.
	Clear()
}

// StickyValidity es la ventana de validez por defecto del token (30 días).
const StickyValidity = 30 * 24 * time.Hour
