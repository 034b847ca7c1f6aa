package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := ContentTypeJSON(next)

	cases := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"plain json", http.MethodPost, "application/json", http.StatusNoContent},
		{"charset with space", http.MethodPost, "application/json; charset=utf-8", http.StatusNoContent},
		{"charset without space", http.MethodPost, "application/json;charset=utf-8", http.StatusNoContent},
		{"uppercase charset", http.MethodPatch, "application/json; charset=UTF-8", http.StatusNoContent},
		{"uppercase media type", http.MethodPost, "Application/JSON", http.StatusNoContent},
		{"missing header", http.MethodPost, "", http.StatusNoContent},
		{"form data", http.MethodPost, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"plain text", http.MethodPut, "text/plain", http.StatusUnsupportedMediaType},
		{"malformed header", http.MethodPost, ";;", http.StatusUnsupportedMediaType},
		{"get bypasses the check", http.MethodGet, "text/plain", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/", nil)
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}
