package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/services"
	"github.com/pantryhub/pantry/internal/shopping"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: &shopping.ValidationError{Field: "quantity", Reason: "must be positive"}, wantStatus: http.StatusBadRequest},
		{name: "unauthorized", err: fmt.Errorf("%w: expired", services.ErrUnauthorized), wantStatus: http.StatusUnauthorized},
		{name: "invalid credentials", err: services.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "forbidden", err: services.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "not found", err: &shopping.NotFoundError{Entity: "recipe", ID: "r1"}, wantStatus: http.StatusNotFound},
		{name: "no rows", err: fmt.Errorf("finding recipe: %w", sql.ErrNoRows), wantStatus: http.StatusNotFound},
		{name: "username taken", err: services.ErrUsernameTaken, wantStatus: http.StatusConflict},
		{name: "duplicate", err: fmt.Errorf("creating ingredient: %w", repository.ErrDuplicate), wantStatus: http.StatusConflict},
		{name: "referenced", err: fmt.Errorf("deleting ingredient: %w", repository.ErrReferenced), wantStatus: http.StatusConflict},
		{name: "data integrity", err: &shopping.DataIntegrityError{Entity: "ingredient", ID: "x", Reason: "missing"}, wantStatus: http.StatusInternalServerError},
		{name: "unavailable", err: &shopping.BackendUnavailableError{Op: "fetching", Err: errors.New("down")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			writeError(recorder, request, testCase.err)

			if recorder.Code != testCase.wantStatus {
				t.Errorf("expected status %d, got %d", testCase.wantStatus, recorder.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected error message in body")
			}
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	writeError(recorder, request, errors.New("disk I/O error at /var/lib/pantry.db"))

	if strings.Contains(recorder.Body.String(), "pantry.db") {
		t.Errorf("expected generic message, got %s", recorder.Body.String())
	}
}

func TestWriteError_NamesMissingEntity(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPut, "/api/shopping/lists/list-1/items/item-1", nil)

	writeError(recorder, request, fmt.Errorf("updating item: %w", &shopping.NotFoundError{Entity: "shopping list", ID: "list-1"}))

	var body map[string]string
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["entity"] != "shopping list" || body["id"] != "list-1" {
		t.Errorf("expected entity and id in body, got %v", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		optional bool
		wantErr  bool
	}{
		{name: "valid", body: `{"name":"Soup"}`},
		{name: "unknown field", body: `{"nom":"Soup"}`, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "empty required", body: "", wantErr: true},
		{name: "empty optional", body: "", optional: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(testCase.body))
			var dst generateRequest

			err := decodeJSON(request, &dst, testCase.optional)
			if testCase.wantErr {
				if !shopping.IsValidation(err) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decoding: %v", err)
			}
		})
	}
}
