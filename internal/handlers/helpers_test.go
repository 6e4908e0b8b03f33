package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/juicebox/internal/middlewares"
	"github.com/stretchr/testify/require"
)

// newRequest builds a request whose body is v encoded as JSON, or v itself when v is a string.
func newRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()

	var body io.Reader = http.NoBody
	switch b := v.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	return httptest.NewRequest(method, target, body)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withUser(r *http.Request, userID int64) *http.Request {
	return r.WithContext(middlewares.WithUserID(r.Context(), userID))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
