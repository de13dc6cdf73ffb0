package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/contacts-backend/internal/controller"
	"github.com/unclebandit/contacts-backend/internal/model"
	"github.com/unclebandit/contacts-backend/internal/repository"
	"github.com/unclebandit/contacts-backend/internal/service"
)

// --- Test server ---

func newServer(t *testing.T) http.Handler {
	t.Helper()
	repo, err := repository.OpenJSONFile(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := &controller.ContactController{
		ContactService: &service.ContactService{ContactRepo: repo, Logger: logger},
		Logger:         logger,
	}

	r := chi.NewRouter()
	r.Route("/api", ctrl.Routes)
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func seed(t *testing.T, h http.Handler, n int, favourite func(i int) bool) {
	t.Helper()
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Contact %02d", i)
		if i == 1 {
			name = "Alice Smith"
		}
		w := do(t, h, http.MethodPost, "/api/contacts", model.ContactInput{
			Name:      name,
			Email:     fmt.Sprintf("c%d@example.com", i),
			Phone:     "0712345678",
			Favourite: favourite(i),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("seed %d: expected 201, got %d: %s", i, w.Code, w.Body)
		}
	}
}

// --- Tests ---

func TestListContactsPagination(t *testing.T) {
	h := newServer(t)
	seed(t, h, 12, func(i int) bool { return i%4 == 0 })

	w := do(t, h, http.MethodGet, "/api/contacts?page=2&limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}
	page := decode[model.ContactPage](t, w)
	if len(page.Data) != 2 || page.Total != 12 || page.TotalPages != 2 || page.Page != 2 || page.Limit != 10 {
		t.Errorf("unexpected page %+v", page)
	}

	w = do(t, h, http.MethodGet, "/api/contacts?favourite=true", nil)
	page = decode[model.ContactPage](t, w)
	if page.Total != 3 || len(page.Data) != 3 || page.TotalPages != 1 {
		t.Errorf("favourites: unexpected page %+v", page)
	}

	w = do(t, h, http.MethodGet, "/api/contacts?favourite=yes", nil)
	page = decode[model.ContactPage](t, w)
	if page.Total != 12 {
		t.Errorf("favourite=yes must not filter, got total %d", page.Total)
	}

	w = do(t, h, http.MethodGet, "/api/contacts?search=ALI&limit=5", nil)
	page = decode[model.ContactPage](t, w)
	if page.Total != 1 || page.Data[0].Name != "Alice Smith" {
		t.Errorf("search: unexpected page %+v", page)
	}

	w = do(t, h, http.MethodGet, "/api/contacts?page=abc&limit=-4", nil)
	page = decode[model.ContactPage](t, w)
	if page.Page != 1 || page.Limit != 10 || len(page.Data) != 10 {
		t.Errorf("expected defaults for invalid pagination, got page=%d limit=%d len=%d", page.Page, page.Limit, len(page.Data))
	}
}

func TestListContactsWireShape(t *testing.T) {
	h := newServer(t)

	w := do(t, h, http.MethodGet, "/api/contacts?page=9", nil)
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"data", "total", "page", "limit", "totalPages"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if string(raw["data"]) != "[]" {
		t.Errorf("expected empty array for data, got %s", raw["data"])
	}
}

func TestContactCRUD(t *testing.T) {
	h := newServer(t)

	in := model.ContactInput{Name: "Bob Jones", Email: "bob@example.com", Phone: "0723456789", Address: "Mombasa"}
	w := do(t, h, http.MethodPost, "/api/contacts", in)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	created := decode[model.Contact](t, w)
	if created.ID == 0 || created.Input() != in {
		t.Fatalf("unexpected created contact %+v", created)
	}
	path := fmt.Sprintf("/api/contacts/%d", created.ID)

	w = do(t, h, http.MethodGet, path, nil)
	if got := decode[model.Contact](t, w); got != created {
		t.Errorf("get: expected %+v, got %+v", created, got)
	}

	in.Name = "Robert Jones"
	w = do(t, h, http.MethodPut, path, map[string]any{
		"id": 999, "name": in.Name, "email": in.Email, "phone": in.Phone, "address": in.Address,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d", w.Code)
	}
	if got := decode[model.Contact](t, w); got.ID != created.ID || got.Name != "Robert Jones" {
		t.Errorf("put: unexpected contact %+v", got)
	}

	w = do(t, h, http.MethodPatch, path, map[string]any{"address": "Kisumu"})
	if got := decode[model.Contact](t, w); got.Address != "Kisumu" || got.Name != "Robert Jones" {
		t.Errorf("patch: unexpected contact %+v", got)
	}

	w = do(t, h, http.MethodPost, path+"/favourite", nil)
	if got := decode[model.Contact](t, w); !got.Favourite {
		t.Errorf("toggle: expected favourite, got %+v", got)
	}
	w = do(t, h, http.MethodGet, "/api/contacts?favourite=true", nil)
	if page := decode[model.ContactPage](t, w); page.Total != 1 {
		t.Errorf("expected toggled contact in favourites, got %+v", page)
	}

	w = do(t, h, http.MethodDelete, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if got := decode[map[string]int](t, w); got["id"] != created.ID {
		t.Errorf("delete: expected deleted id, got %v", got)
	}

	if w = do(t, h, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", w.Code)
	}
	w = do(t, h, http.MethodGet, "/api/contacts", nil)
	if page := decode[model.ContactPage](t, w); page.Total != 0 {
		t.Errorf("expected no contacts left, got %+v", page)
	}
}

func TestContactErrors(t *testing.T) {
	h := newServer(t)
	valid := model.ContactInput{Name: "Carol", Email: "carol@example.com", Phone: "0700000000"}

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"get unknown", http.MethodGet, "/api/contacts/41", nil, http.StatusNotFound},
		{"put unknown", http.MethodPut, "/api/contacts/41", valid, http.StatusNotFound},
		{"put unknown with invalid body", http.MethodPut, "/api/contacts/41", model.ContactInput{Name: "Carol", Email: "nope"}, http.StatusNotFound},
		{"patch unknown", http.MethodPatch, "/api/contacts/41", map[string]string{"name": "x"}, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/contacts/41", nil, http.StatusNotFound},
		{"toggle unknown", http.MethodPost, "/api/contacts/41/favourite", nil, http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/contacts/abc", nil, http.StatusBadRequest},
		{"bad email", http.MethodPost, "/api/contacts", model.ContactInput{Name: "Carol", Email: "nope", Phone: "0700000000"}, http.StatusUnprocessableEntity},
		{"missing name", http.MethodPost, "/api/contacts", model.ContactInput{Email: "carol@example.com", Phone: "0700000000"}, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, tc.method, tc.path, tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body)
			}
			if got := decode[map[string]any](t, w); got["error"] == nil {
				t.Errorf("expected error message in body, got %v", got)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", w.Code)
	}
}

func TestExportContacts(t *testing.T) {
	h := newServer(t)

	w := do(t, h, http.MethodGet, "/api/contacts/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"contacts":[]}` {
		t.Errorf("expected empty document, got %s", got)
	}

	seed(t, h, 12, func(int) bool { return false })
	doc := decode[model.ContactDocument](t, do(t, h, http.MethodGet, "/api/contacts/export", nil))
	if len(doc.Contacts) != 12 || doc.Contacts[0].Name != "Alice Smith" || doc.Contacts[11].ID != 12 {
		t.Errorf("expected all 12 contacts unpaginated, got %d", len(doc.Contacts))
	}
}
