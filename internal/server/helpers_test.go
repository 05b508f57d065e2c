package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/folio/internal/models"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing rate", &models.MissingRateError{Currency: "JPY"}, http.StatusFailedDependency, codeMissingRate},
		{"wrapped missing rate", fmt.Errorf("recompute: %w", &models.MissingRateError{Currency: "JPY"}), http.StatusFailedDependency, codeMissingRate},
		{"repository", &models.RepositoryError{Err: errors.New("disk")}, http.StatusServiceUnavailable, codeRepositoryUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteServiceError(rr, tt.err)

			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
			if resp.Error == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/config", nil)
	rr := httptest.NewRecorder()

	if RequireMethod(rr, req, http.MethodGet, http.MethodPut) {
		t.Fatal("expected DELETE to be rejected")
	}
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
	if got := rr.Header().Get("Allow"); got != "GET, PUT" {
		t.Errorf("Allow = %q", got)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/config", nil)
	if !RequireMethod(httptest.NewRecorder(), req, http.MethodGet, http.MethodPut) {
		t.Error("expected PUT to be accepted")
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Event string `json:"event"`
	}

	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(`{"event":"asset_added"}`))
	if !DecodeJSON(httptest.NewRecorder(), req, &v) {
		t.Fatal("expected valid JSON to decode")
	}
	if v.Event != "asset_added" {
		t.Errorf("Event = %q", v.Event)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(`{"event":`))
	rr := httptest.NewRecorder()
	if DecodeJSON(rr, req, &v) {
		t.Fatal("expected invalid JSON to fail")
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
