package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteErrorJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrInvalidURLFormat.WithDetail("ftp://x"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INVALID_URL_FORMAT", body["code"])
	require.Equal(t, "ftp://x", body["detail"])
}

func TestWritePlain(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePlain(rec, ErrAccessDenied)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "Forbidden access\n", rec.Body.String())
}

func TestFromErrorUnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("controller: %w", ErrUnknownAction.WithDetail("explode"))
	require.Equal(t, "UNKNOWN_ACTION", FromError(wrapped).Code)

	plain := stderrors.New("boom")
	got := FromError(plain)
	require.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	require.ErrorIs(t, got, plain)
}

func TestWithDetailDoesNotMutateBase(t *testing.T) {
	_ = ErrMissingFields.WithDetail("appName")
	require.Empty(t, ErrMissingFields.Detail)
}
