package collector

import (
	"fmt"
	"net/url"
	"strings"
)

// Formatos de transporte soportados por el protocolo de llamada a nodos.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// Directivas del protocolo de llamada.
const (
	ParamFormat    = "format"
	ParamPart      = "part"
	ParamAction    = "action"
	ParamSessionID = "sessionId"
	ParamPeriod    = "period"
	ParamCounter   = "counter"
)

// NodeURL es la dirección de monitoreo de un nodo. Inmutable una vez creada.
type NodeURL struct {
	u *url.URL
}

// ParseNodeURL valida y normaliza una URL de nodo.
// Solo acepta http/https y agrega monitoringPath si no está presente.
func ParseNodeURL(raw, monitoringPath string) (NodeURL, error) {
	raw = strings.TrimSpace(raw)
	low := strings.ToLower(raw)
	if !strings.HasPrefix(low, "http://") && !strings.HasPrefix(low, "https://") {
		return NodeURL{}, fmt.Errorf("collector: url %q must start with http:// or https://", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return NodeURL{}, fmt.Errorf("collector: invalid url %q: %w", raw, err)
	}
	if u.Host == "" {
		return NodeURL{}, fmt.Errorf("collector: url %q has no host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""

	if monitoringPath != "" {
		mp := "/" + strings.Trim(monitoringPath, "/")
		p := strings.TrimRight(u.Path, "/")
		if !strings.HasSuffix(p, mp) {
			p += mp
		}
		u.Path = p
	}
	return NodeURL{u: u}, nil
}

// ParseNodeURLs separa una lista por comas y parsea cada elemento.
// Falla completa si cualquiera es inválido (sin resultados parciales).
func ParseNodeURLs(list, monitoringPath string) ([]NodeURL, error) {
	var out []NodeURL
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		n, err := ParseNodeURL(part, monitoringPath)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("collector: no url in %q", list)
	}
	return out, nil
}

// MustParseNodeURL es como ParseNodeURL sin monitoring path; panic si falla.
func MustParseNodeURL(raw string) NodeURL {
	n, err := ParseNodeURL(raw, "")
	if err != nil {
		panic(err)
	}
	return n
}

// String devuelve la URL base del nodo sin query.
func (n NodeURL) String() string {
	if n.u == nil {
		return ""
	}
	return n.u.String()
}

// IsZero reporta si la URL no fue inicializada.
func (n NodeURL) IsZero() bool { return n.u == nil }

// HostPort devuelve host[:port]; el puerto se omite si es el default del esquema.
func (n NodeURL) HostPort() string {
	if n.u == nil {
		return ""
	}
	return n.u.Host
}

// Call arma la URL de llamada con format y las directivas no vacías.
// El orden de los parámetros es estable: format primero, luego el resto ordenado.
func (n NodeURL) Call(format string, directives map[string]string) string {
	if n.u == nil {
		return ""
	}
	if format == "" {
		format = FormatJSON
	}
	c := *n.u
	q := url.Values{}
	for k, v := range directives {
		if v != "" {
			q.Set(k, v)
		}
	}
	enc := ParamFormat + "=" + url.QueryEscape(format)
	if rest := q.Encode(); rest != "" {
		enc += "&" + rest
	}
	c.RawQuery = enc
	return c.String()
}

// MarshalText permite serializar NodeURL como string (yaml/json).
func (n NodeURL) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText parsea sin agregar monitoring path (ya fue normalizada al registrar).
func (n *NodeURL) UnmarshalText(b []byte) error {
	v, err := ParseNodeURL(string(b), "")
	if err != nil {
		return err
	}
	*n = v
	return nil
}
