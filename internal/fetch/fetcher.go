// Package fetch implementa el acceso a un nodo monitoreado: traer y decodificar
// un payload tipado, o copiar la respuesta cruda al cliente sin bufferearla entera.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/collector/internal/collector"
	"github.com/dropDatabas3/collector/internal/metrics"
	"github.com/dropDatabas3/collector/internal/observability/logger"
)

// maxErrorBody limita lo que se lee del body cuando el nodo responde con error.
const maxErrorBody = 4 << 10

// Flusher es una salida local con buffer que debe vaciarse antes de que
// empiecen los bytes remotos (títulos/cabeceras ya escritos por el caller).
type Flusher interface {
	Flush() error
}

// Config configura el Fetcher.
type Config struct {
	// Timeout por llamada a nodo. Default: 20s.
	Timeout time.Duration
	// Client opcional (tests). Si es nil se crea uno con Timeout.
	Client *http.Client
}

// Fetcher consulta nodos. Es seguro para uso concurrente.
type Fetcher struct {
	client *http.Client
}

// New crea un Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Client != nil {
		return &Fetcher{client: cfg.Client}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: cfg.Timeout}}
}

// Call trae y decodifica exactamente un payload JSON en out.
// Un body `null` deja out en su valor cero (ej. sesión ausente).
func (f *Fetcher) Call(ctx context.Context, rawURL string, out any) (err error) {
	start := time.Now()
	part := partOf(rawURL)
	defer func() {
		metrics.ObserveFetch(part, start, err)
		logger.From(ctx).Debug("node call",
			logger.Layer("fetch"),
			logger.Node(rawURL),
			logger.Part(part),
			logger.DurationMs(time.Since(start).Milliseconds()),
			logger.Bool("ok", err == nil),
		)
	}()

	resp, err := f.open(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return unknownPayload(rawURL, resp.StatusCode, err)
	}
	// exactamente un valor: bytes extra después del payload lo invalidan
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("trailing data after payload")
		}
		return unknownPayload(rawURL, resp.StatusCode, err)
	}
	return nil
}

func unknownPayload(rawURL string, status int, err error) error {
	return &collector.FetchError{
		URL:    rawURL,
		Status: status,
		Err:    fmt.Errorf("%w: %v", collector.ErrUnknownPayload, err),
	}
}

// CopyTo vacía pending (si no es nil) y luego copia el body remoto a dst tal cual.
// Devuelve los bytes remotos copiados.
func (f *Fetcher) CopyTo(ctx context.Context, rawURL string, pending Flusher, dst io.Writer) (n int64, err error) {
	start := time.Now()
	part := partOf(rawURL)
	defer func() { metrics.ObserveFetch(part, start, err) }()

	resp, err := f.open(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if pending != nil {
		if err := pending.Flush(); err != nil {
			return 0, err
		}
	}
	n, err = io.Copy(dst, resp.Body)
	if err != nil {
		return n, &collector.FetchError{URL: rawURL, Status: resp.StatusCode, Err: err}
	}
	return n, nil
}

// open hace el GET y convierte fallas de red o status >= 400 en *FetchError.
// Si no hay error el caller debe cerrar el body.
func (f *Fetcher) open(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &collector.FetchError{URL: rawURL, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &collector.FetchError{URL: rawURL, Err: unwrapURLError(err)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &collector.FetchError{URL: rawURL, Status: resp.StatusCode, Err: errors.New(msg)}
	}
	return resp, nil
}

// unwrapURLError evita repetir la URL en el mensaje (ya la lleva FetchError).
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}

func partOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if a := q.Get(collector.ParamAction); a != "" {
		return "action"
	}
	return q.Get(collector.ParamPart)
}
