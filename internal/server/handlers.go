package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/wanifuchi/seonavi/internal/utils"
	"github.com/wanifuchi/seonavi/pkg/schema"
	"github.com/wanifuchi/seonavi/pkg/storage"
)

type AuditRequest struct {
	URL  string `json:"url"`
	Save bool   `json:"save"`
}

type AuditResponse struct {
	Result   *schema.AuditResult `json:"result"`
	Markdown string              `json:"markdown"`
	Score    int                 `json:"score"`
	SavedID  int64               `json:"saved_id,omitempty"`
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	page, err := s.Fetch(r.Context(), req.URL)
	if err != nil {
		// Fetch failures surface before the engine runs; the engine itself
		// never fails on a fetched document.
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	result := schema.AuditPage(page.HTML, req.URL)
	markdown := schema.RenderMarkdown(result)

	resp := AuditResponse{
		Result:   result,
		Markdown: markdown,
		Score:    schema.Score(result),
	}

	if req.Save {
		if s.DB == nil {
			http.Error(w, "no database configured", http.StatusBadRequest)
			return
		}
		id, err := s.DB.SaveAudit(r.Context(), result, markdown)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.SavedID = id
	}

	utils.Log.Debugf("audited %s: %d items, %d snippets", req.URL, len(result.Items), len(result.Snippets))
	writeJSON(w, resp)
}

func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	opts := storage.ListOptions{
		Domain: q.Get("domain"),
		URL:    q.Get("url"),
		Limit:  limit,
	}

	audits, err := s.DB.ListAudits(r.Context(), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if audits == nil {
		audits = []storage.Audit{}
	}
	writeJSON(w, audits)
}

func (s *Server) handleLatestAudit(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	audit, err := s.DB.LatestByURL(r.Context(), url)
	if err != nil {
		http.Error(w, "no audit found for "+url, http.StatusNotFound)
		return
	}
	writeJSON(w, audit)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DB.GetStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if stats == nil {
		stats = []storage.DomainStats{}
	}
	writeJSON(w, stats)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Errorf("encoding response: %v", err)
	}
}
