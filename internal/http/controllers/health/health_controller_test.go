package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	dto "github.com/dropDatabas3/collector/internal/http/dto/health"
)

type stubService struct{ res dto.HealthResponse }

func (s stubService) Check(context.Context) dto.HealthResponse { return s.res }

func TestReadyz(t *testing.T) {
	c := NewHealthController(stubService{res: dto.HealthResponse{Status: "ready", Version: "v1"}})

	rec := httptest.NewRecorder()
	c.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "v1", rec.Header().Get("X-Service-Version"))

	var body dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ready", body.Status)
}

func TestReadyzUnavailable(t *testing.T) {
	c := NewHealthController(stubService{res: dto.HealthResponse{Status: "unavailable"}})
	rec := httptest.NewRecorder()
	c.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadyzMethodNotAllowed(t *testing.T) {
	c := NewHealthController(stubService{})
	rec := httptest.NewRecorder()
	c.Readyz(rec, httptest.NewRequest(http.MethodPost, "/readyz", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET", rec.Header().Get("Allow"))
}
