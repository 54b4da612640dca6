package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/starford/raido/internal/catalog"
)

// testEnv sets up a temp catalog and router for testing.
// authToken == "" means disabled mode.
func testEnv(t *testing.T, authToken string, trigger RunTrigger) (*catalog.DB, http.Handler) {
	t.Helper()

	dbFile, err := os.CreateTemp("", "raido-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	router := NewRouter(db, trigger, authToken != "", authToken, nil)
	return db, router
}

func TestListPages(t *testing.T) {
	db, router := testEnv(t, "", nil)
	if err := db.InsertPage(catalog.Page{URL: "https://a.example", Title: "A", Filename: "a.html"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/pages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Pages []catalog.Page `json:"pages"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Pages) != 1 || resp.Pages[0].URL != "https://a.example" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListPages_EmptyIsArrayNotNull(t *testing.T) {
	_, router := testEnv(t, "", nil)

	req := httptest.NewRequest(http.MethodGet, "/pages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp["pages"]) == "null" {
		t.Error("pages must encode as [], not null")
	}
}

func TestSearch(t *testing.T) {
	db, router := testEnv(t, "", nil)
	if err := db.InsertPage(catalog.Page{URL: "https://go.dev/blog", Title: "Go blog"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/search?q=blog", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var pages []catalog.Page
	if err := json.Unmarshal(w.Body.Bytes(), &pages); err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 || pages[0].URL != "https://go.dev/blog" {
		t.Errorf("pages = %+v", pages)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	_, router := testEnv(t, "", nil)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestTriggerRun(t *testing.T) {
	calls := 0
	_, router := testEnv(t, "", func() bool {
		calls++
		return calls == 1
	})

	req := httptest.NewRequest(http.MethodPost, "/runs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("first trigger status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/runs", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("second trigger status = %d, want 409", w.Code)
	}
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	_, router := testEnv(t, "secret", nil)

	req := httptest.NewRequest(http.MethodGet, "/pages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/pages", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", w.Code)
	}
}

func TestStats(t *testing.T) {
	db, router := testEnv(t, "", nil)
	if err := db.InsertPage(catalog.Page{URL: "https://a.example"}); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertPage(catalog.Page{URL: "https://b.example"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var stats map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats["archived"] != 2 {
		t.Errorf("archived = %d, want 2", stats["archived"])
	}
}
