package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/services"
	"github.com/pantryhub/pantry/internal/shopping"
)

func respondWith(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestClient_MapsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"invalid quantity"}`, check: shopping.IsValidation},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"authentication required"}`, check: func(err error) bool {
			return errors.Is(err, services.ErrUnauthorized)
		}},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"nope"}`, check: func(err error) bool {
			return errors.Is(err, services.ErrForbidden)
		}},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"missing"}`, check: shopping.IsNotFound},
		{name: "conflict", status: http.StatusConflict, body: `{"error":"already exists"}`, check: func(err error) bool {
			return errors.Is(err, ErrConflict)
		}},
		{name: "username taken", status: http.StatusConflict, body: `{"error":"username already in use"}`, check: func(err error) bool {
			return errors.Is(err, services.ErrUsernameTaken)
		}},
		{name: "unavailable", status: http.StatusServiceUnavailable, body: `{"error":"service unavailable"}`, check: shopping.IsBackendUnavailable},
		{name: "bad gateway without body", status: http.StatusBadGateway, body: "", check: shopping.IsBackendUnavailable},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"internal server error"}`, check: func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.Status == http.StatusInternalServerError
		}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testServer := httptest.NewServer(respondWith(testCase.status, testCase.body))
			defer testServer.Close()

			_, err := New(testServer.URL).FetchShoppingList(context.Background(), "list-1")
			if !testCase.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
		})
	}
}

func TestClient_NotFoundNamesEntity(t *testing.T) {
	testServer := httptest.NewServer(respondWith(http.StatusNotFound, `{"error":"not found"}`))
	defer testServer.Close()

	_, err := New(testServer.URL).FetchRecipe(context.Background(), "recipe-9")
	var notFound *shopping.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Entity != "recipe" || notFound.ID != "recipe-9" {
		t.Errorf("unexpected not found %+v", notFound)
	}
}

func TestClient_NotFoundPrefersEntityFromBody(t *testing.T) {
	testServer := httptest.NewServer(respondWith(http.StatusNotFound,
		`{"error":"shopping list not found: list-1","entity":"shopping list","id":"list-1"}`))
	defer testServer.Close()

	change := shopping.ItemChange{Op: shopping.ItemDeleted, Item: models.ShoppingListItem{ID: "item-1"}}
	err := New(testServer.URL).PersistShoppingListItem(context.Background(), "list-1", change)
	var notFound *shopping.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Entity != "shopping list" || notFound.ID != "list-1" {
		t.Errorf("unexpected not found %+v", notFound)
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	var header string
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		respondWith(http.StatusOK, `{"id":"u1","username":"alice"}`)(w, r)
	}))
	defer testServer.Close()

	user, err := New(testServer.URL, WithToken("abc")).Profile(context.Background())
	if err != nil {
		t.Fatalf("fetching profile: %v", err)
	}
	if header != "Bearer abc" {
		t.Errorf("expected bearer header, got %q", header)
	}
	if user.Username != "alice" {
		t.Errorf("expected alice, got %q", user.Username)
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	testServer := httptest.NewServer(respondWith(http.StatusOK, "[]"))
	url := testServer.URL
	testServer.Close()

	_, err := New(url).FetchCatalog(context.Background())
	if !shopping.IsBackendUnavailable(err) {
		t.Fatalf("expected BackendUnavailableError, got %v", err)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer testServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(testServer.URL).FetchCatalog(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if shopping.IsBackendUnavailable(err) {
		t.Error("cancellation should not read as an unavailable backend")
	}
}

func newFlakyServer(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= failures {
			respondWith(http.StatusServiceUnavailable, `{"error":"service unavailable"}`)(w, r)
			return
		}
		respondWith(http.StatusOK, `[{"id":"flour","name":"Flour","unit":"g","unit_price":"0.002"}]`)(w, r)
	}))
	t.Cleanup(testServer.Close)
	return testServer, &calls
}

func fastBackOff() backoff.BackOff {
	return backoff.NewConstantBackOff(time.Millisecond)
}

func TestClient_RetriesReads(t *testing.T) {
	tests := []struct {
		name      string
		retries   int
		failures  int32
		wantErr   bool
		wantCalls int32
	}{
		{name: "no retries by default", retries: 0, failures: 1, wantErr: true, wantCalls: 1},
		{name: "recovers within budget", retries: 3, failures: 2, wantCalls: 3},
		{name: "gives up after budget", retries: 2, failures: 5, wantErr: true, wantCalls: 3},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testServer, calls := newFlakyServer(t, testCase.failures)
			client := New(testServer.URL, WithRetry(testCase.retries), WithBackOff(fastBackOff))

			ingredients, err := client.FetchCatalog(context.Background())
			if testCase.wantErr {
				if !shopping.IsBackendUnavailable(err) {
					t.Fatalf("expected BackendUnavailableError, got %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("fetching catalog: %v", err)
				}
				if len(ingredients) != 1 || ingredients[0].ID != "flour" {
					t.Errorf("unexpected catalog %+v", ingredients)
				}
			}
			if calls.Load() != testCase.wantCalls {
				t.Errorf("expected %d calls, got %d", testCase.wantCalls, calls.Load())
			}
		})
	}
}

func TestClient_DoesNotRetryWrites(t *testing.T) {
	testServer, calls := newFlakyServer(t, 5)
	client := New(testServer.URL, WithRetry(3), WithBackOff(fastBackOff))

	err := client.DeleteShoppingList(context.Background(), "list-1")
	if !shopping.IsBackendUnavailable(err) {
		t.Fatalf("expected BackendUnavailableError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single call, got %d", calls.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respondWith(http.StatusForbidden, `{"error":"nope"}`)(w, r)
	}))
	defer testServer.Close()

	client := New(testServer.URL, WithRetry(3), WithBackOff(fastBackOff))
	if _, err := client.FetchInventory(context.Background(), "inv-1"); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single call, got %d", calls.Load())
	}
}
