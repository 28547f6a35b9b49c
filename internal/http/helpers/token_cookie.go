package helpers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dropDatabas3/collector/internal/collector"
)

// CookieTokenStore implementa collector.TokenStore sobre una cookie.
// Vive lo que dura un request.
type CookieTokenStore struct {
	w    http.ResponseWriter
	name string
	path string

	value   string
	present bool
}

// NewCookieTokenStore lee la cookie name del request. path es el base path del collector.
func NewCookieTokenStore(w http.ResponseWriter, r *http.Request, name, path string) *CookieTokenStore {
	if path == "" {
		path = "/"
	}
	s := &CookieTokenStore{w: w, name: name, path: path}
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		if v, err := url.QueryUnescape(c.Value); err == nil {
			s.value, s.present = v, true
		}
	}
	return s
}

func (s *CookieTokenStore) Current() (string, bool) { return s.value, s.present }

func (s *CookieTokenStore) Persist(name string, validity time.Duration) {
	s.value, s.present = name, true
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.name,
		Value:    url.QueryEscape(name),
		Path:     s.path,
		MaxAge:   int(validity / time.Second),
		Expires:  time.Now().Add(validity),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieTokenStore) Clear() {
	s.value, s.present = "", false
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     s.path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

var _ collector.TokenStore = (*CookieTokenStore)(nil)
