package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"log/slog"

	"linksift/internal/canon"
	"linksift/internal/config"
	"linksift/internal/ratelimit"
	"linksift/internal/store"
	"linksift/internal/suffix"
	"linksift/internal/urlval"
)

// LinkStore is the subset of store methods the HTTP layer needs.
type LinkStore interface {
	Upsert(ctx context.Context, rawURL, canonicalURL, hash, domain string) (store.Link, bool, error)
	Get(ctx context.Context, id string) (store.Link, error)
	List(ctx context.Context, domain string, page, perPage int) ([]store.Link, store.Pagination, error)
}

type Server struct {
	cfg     config.Config
	store   LinkStore
	limiter *ratelimit.Limiter
	logger  *slog.Logger
	oracle  suffix.Oracle
}

func New(cfg config.Config, st LinkStore, limiter *ratelimit.Limiter, log *slog.Logger, oracle suffix.Oracle) *Server {
	return &Server{
		cfg:     cfg,
		store:   st,
		limiter: limiter,
		logger:  log,
		oracle:  oracle,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(AccessLog(s.logger))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/normalize", s.handleNormalize)
		r.Post("/compare", s.handleCompare)

		r.Route("/links", func(r chi.Router) {
			r.Get("/", s.handleListLinks)
			r.Post("/", s.handleCreateLink)
			r.Get("/{id}", s.handleGetLink)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL    string `json:"url"`
		Strict bool   `json:"strict"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	u := urlval.Parse(req.URL).Defrag().Abspath()
	if req.Strict {
		u = u.EscapeStrict()
	} else {
		u = u.Escape()
	}
	u = u.Canonical()
	canonical, err := u.Punycode()
	if err != nil {
		canonical = u
	}

	sum := sha256.Sum256([]byte(canonical.String()))
	resp := map[string]interface{}{
		"sanitized": urlval.Parse(req.URL).Sanitize().String(),
		"canonical": canonical.String(),
		"hash":      hex.EncodeToString(sum[:]),
		"absolute":  u.Absolute(),
	}
	if canonical.Host() != "" {
		resp["pld"] = canonical.PLD(s.oracle)
		resp["tld"] = canonical.TLD(s.oracle)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		A string `json:"a"`
		B string `json:"b"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.A == "" || req.B == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	a := urlval.Parse(req.A)
	writeJSON(w, http.StatusOK, map[string]bool{
		"equal":      a.EqualString(req.B),
		"equivalent": a.EquivString(req.B),
	})
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	u := urlval.Parse(req.URL)
	if !u.Absolute() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_url"})
		return
	}

	canonical, hash := canon.Canonicalize(req.URL)
	domain := urlval.Parse(canonical).PLD(s.oracle)
	link, created, err := s.store.Upsert(r.Context(), req.URL, canonical, hash, domain)
	if err != nil {
		s.logger.Error("upsert_failed", slog.String("error", err.Error()), slog.String("request_id", requestIDFromContext(r.Context())))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db_error"})
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{"link": link, "created": created})
}

func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	page := parseInt(r.URL.Query().Get("page"), 1)
	perPage := perPageValue(r.URL.Query().Get("per_page"))

	links, pag, err := s.store.List(r.Context(), domain, page, perPage)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db_error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"links": links, "pagination": pag})
}

func (s *Server) handleGetLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	link, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db_error"})
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate_limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func perPageValue(v string) int {
	allowed := map[int]struct{}{10: {}, 20: {}, 30: {}, 40: {}, 50: {}}
	parsed := parseInt(v, 30)
	if _, ok := allowed[parsed]; !ok {
		return 30
	}
	return parsed
}
