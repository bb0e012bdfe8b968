package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"linksift/internal/config"
	"linksift/internal/ratelimit"
	"linksift/internal/store"
	"linksift/internal/suffix"
)

type fakeStore struct {
	byHash map[string]store.Link
	byID   map[string]store.Link
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byHash: map[string]store.Link{}, byID: map[string]store.Link{}}
}

func (f *fakeStore) Upsert(ctx context.Context, rawURL, canonicalURL, hash, domain string) (store.Link, bool, error) {
	if link, ok := f.byHash[hash]; ok {
		link.Hits++
		f.byHash[hash] = link
		f.byID[link.ID] = link
		return link, false, nil
	}
	f.nextID++
	link := store.Link{
		ID:            fmt.Sprintf("id-%03d", f.nextID),
		URL:           rawURL,
		CanonicalURL:  canonicalURL,
		CanonicalHash: hash,
		Domain:        domain,
		CrawlStatus:   "pending",
		Hits:          1,
	}
	f.byHash[hash] = link
	f.byID[link.ID] = link
	return link, true, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (store.Link, error) {
	link, ok := f.byID[id]
	if !ok {
		return store.Link{}, store.ErrNotFound
	}
	return link, nil
}

func (f *fakeStore) List(ctx context.Context, domain string, page, perPage int) ([]store.Link, store.Pagination, error) {
	var links []store.Link
	for _, l := range f.byID {
		if domain == "" || l.Domain == domain {
			links = append(links, l)
		}
	}
	return links, store.Pagination{Page: page, PerPage: perPage, Total: len(links)}, nil
}

func newTestServer(st LinkStore) *Server {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	limiter := ratelimit.New(10000, 10000)
	oracle := suffix.Table{"com", "co.uk"}
	return New(config.Config{}, st, limiter, log, oracle)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.1:12345"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNormalize(t *testing.T) {
	srv := newTestServer(newFakeStore())
	rec := postJSON(t, srv.Routes(), "/v1/normalize", `{"url":"HTTP://WWW.Example.COM/a/../b?b=2&a=1#frag"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp["canonical"] != "http://www.example.com/b?a=1&b=2" {
		t.Fatalf("canonical mismatch: %v", resp["canonical"])
	}
	if resp["pld"] != "example.com" {
		t.Fatalf("pld mismatch: %v", resp["pld"])
	}
	if resp["tld"] != "com" {
		t.Fatalf("tld mismatch: %v", resp["tld"])
	}
	if resp["absolute"] != true {
		t.Fatalf("expected absolute")
	}
	if hash, _ := resp["hash"].(string); len(hash) != 64 {
		t.Fatalf("expected sha256 hex hash, got %v", resp["hash"])
	}
}

func TestNormalizeSortsAfterEscaping(t *testing.T) {
	srv := newTestServer(newFakeStore())
	rec := postJSON(t, srv.Routes(), "/v1/normalize", `{"url":"http://foo.com/?z=1&%7a=2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp["canonical"] != "http://foo.com/?z=1&z=2" {
		t.Fatalf("canonical mismatch: %v", resp["canonical"])
	}
}

func TestNormalizeRejectsEmpty(t *testing.T) {
	srv := newTestServer(newFakeStore())
	rec := postJSON(t, srv.Routes(), "/v1/normalize", `{"url":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompare(t *testing.T) {
	srv := newTestServer(newFakeStore())
	rec := postJSON(t, srv.Routes(), "/v1/compare", `{"a":"http://example.com:80/a/../b","b":"http://EXAMPLE.com/b"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp["equal"] {
		t.Fatalf("expected not equal")
	}
	if !resp["equivalent"] {
		t.Fatalf("expected equivalent")
	}
}

func TestCreateLinkDedupes(t *testing.T) {
	st := newFakeStore()
	srv := newTestServer(st)
	h := srv.Routes()

	rec := postJSON(t, h, "/v1/links", `{"url":"http://example.com/page?utm_source=x"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = postJSON(t, h, "/v1/links", `{"url":"http://example.com/page#other"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", rec.Code)
	}
	var resp struct {
		Created bool       `json:"created"`
		Link    store.Link `json:"link"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.Created {
		t.Fatalf("expected created=false")
	}
	if resp.Link.Hits != 2 {
		t.Fatalf("expected 2 hits, got %d", resp.Link.Hits)
	}
	if resp.Link.Domain != "example.com" {
		t.Fatalf("domain mismatch: %s", resp.Link.Domain)
	}
}

func TestCreateLinkRejectsRelative(t *testing.T) {
	srv := newTestServer(newFakeStore())
	rec := postJSON(t, srv.Routes(), "/v1/links", `{"url":"/just/a/path"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetLinkNotFound(t *testing.T) {
	srv := newTestServer(newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/v1/links/missing", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	st := newFakeStore()
	srv := newTestServer(st)
	srv.limiter = ratelimit.New(1, 1)
	h := srv.Routes()

	rec := postJSON(t, h, "/v1/compare", `{"a":"http://a.com/","b":"http://a.com/"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}
	rec = postJSON(t, h, "/v1/compare", `{"a":"http://a.com/","b":"http://a.com/"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestPerPageValue(t *testing.T) {
	if perPageValue("10") != 10 {
		t.Fatalf("expected 10")
	}
	if perPageValue("35") != 30 {
		t.Fatalf("invalid should default to 30")
	}
	if perPageValue("") != 30 {
		t.Fatalf("empty should default to 30")
	}
}
