// Package server exposes the audit engine over a small JSON API, backed by
// the same SQLite history the CLI uses.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/wanifuchi/seonavi/internal/utils"
	"github.com/wanifuchi/seonavi/pkg/fetch"
	"github.com/wanifuchi/seonavi/pkg/storage"
)

// FetchFunc retrieves a page for auditing. Swappable so handler tests never
// hit the network.
type FetchFunc func(ctx context.Context, pageURL string) (*fetch.Page, error)

type Server struct {
	DB       *storage.DB
	Username string
	Password string
	Fetch    FetchFunc
}

func New(db *storage.DB, user, pass string, fetchOpts fetch.Options) *Server {
	return &Server{
		DB:       db,
		Username: user,
		Password: pass,
		Fetch: func(ctx context.Context, pageURL string) (*fetch.Page, error) {
			return fetch.Fetch(ctx, pageURL, fetchOpts)
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/audit", s.basicAuth(s.handleAudit))
	mux.HandleFunc("GET /api/audits", s.basicAuth(s.handleListAudits))
	mux.HandleFunc("GET /api/audits/latest", s.basicAuth(s.handleLatestAudit))
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting server on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
