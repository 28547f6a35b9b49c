package helpers

import (
	"bufio"
	"errors"
	"net/http"
)

// StreamWriter bufferea la salida local (títulos por nodo) y la vacía hacia
// el cliente en Flush, antes de que empiecen los bytes de un nodo.
type StreamWriter struct {
	w  http.ResponseWriter
	sw *sentWriter
	bw *bufio.Writer
}

// sentWriter marca si algún byte llegó al ResponseWriter.
type sentWriter struct {
	w    http.ResponseWriter
	sent bool
}

func (s *sentWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		s.sent = true
	}
	return s.w.Write(p)
}

// NewStreamWriter envuelve w.
func NewStreamWriter(w http.ResponseWriter) *StreamWriter {
	sw := &sentWriter{w: w}
	return &StreamWriter{w: w, sw: sw, bw: bufio.NewWriter(sw)}
}

func (s *StreamWriter) Write(p []byte) (int, error) { return s.bw.Write(p) }

// WriteString escribe markup local.
func (s *StreamWriter) WriteString(v string) (int, error) { return s.bw.WriteString(v) }

// Flush vacía el buffer y hace flush del ResponseWriter si lo soporta.
func (s *StreamWriter) Flush() error {
	if err := s.bw.Flush(); err != nil {
		return err
	}
	if err := http.NewResponseController(s.w).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// Started reporta si ya se envió algo al cliente. Mientras sea false la
// respuesta todavía puede reemplazarse por otra.
func (s *StreamWriter) Started() bool { return s.sw.sent }

// Discard tira lo bufferizado sin enviarlo.
func (s *StreamWriter) Discard() { s.bw.Reset(s.sw) }
