package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentstation/techmarket/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// TestFail tests the Fail helper function.
func TestFail(t *testing.T) {
	resp := Fail("TEST_ERROR", "Test error message", "Additional details")

	if resp.Data != nil {
		t.Error("expected Data to be nil")
	}
	if resp.Error == nil {
		t.Fatal("expected Error to be set")
	}
	if resp.Error.Code != "TEST_ERROR" || resp.Error.Details != "Additional details" {
		t.Errorf("unexpected error %+v", resp.Error)
	}
}

// TestOK tests the OK helper and the envelope layout.
func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]int{"count": 2})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type=application/json, got %s", ct)
	}

	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["error"]; !ok {
		t.Error("expected error key to be present as null")
	}
	if raw["error"] != nil {
		t.Errorf("expected null error, got %v", raw["error"])
	}
}

func TestPartial(t *testing.T) {
	w := httptest.NewRecorder()
	Partial(w, []int{1}, "PARTIAL", "add_ons options could not be loaded")

	resp := decode(t, w)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if resp.Data == nil || resp.Error == nil || resp.Error.Code != "PARTIAL" {
		t.Errorf("expected data and error, got %+v", resp)
	}
}

// TestErrorFromType tests mapping of typed errors to status codes.
func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", errors.NewNotFoundError("device", 7), http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("loading form: %w", errors.NewNotFoundError("option", 2)), http.StatusNotFound, "NOT_FOUND"},
		{"validation", errors.NewValidationError("options", 5, "not offered"), http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"remote", errors.NewAPIError("catalog-api", http.StatusBadGateway, "down"), http.StatusBadGateway, "REMOTE_UNAVAILABLE"},
		{"remote unauthorized", errors.NewAPIError("catalog-api", http.StatusUnauthorized, "bad token"), http.StatusBadGateway, "REMOTE_UNAVAILABLE"},
		{"config", &errors.ConfigError{Component: "remote", Message: "no remote catalog configured"}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{"remote timeout", &errors.APIError{Service: "catalog-api", Message: "request failed", Err: errors.Join(errors.ErrTimeout, fmt.Errorf("i/o timeout"))}, http.StatusGatewayTimeout, "TIMEOUT"},
		{"duplicate sale", errors.NewAlreadyExistsError("sale", 1), http.StatusConflict, "ALREADY_EXISTS"},
		{"other", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := decode(t, w)
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("expected code %s, got %+v", tt.wantCode, resp.Error)
			}
		})
	}
}

// TestInternalErrorHidesDetails makes sure internal errors are not leaked.
func TestInternalErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, fmt.Errorf("password=hunter2"))

	resp := decode(t, w)
	if resp.Error.Details != "An unexpected error occurred" {
		t.Errorf("unexpected details %q", resp.Error.Details)
	}
}
