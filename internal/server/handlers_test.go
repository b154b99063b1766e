package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wanifuchi/seonavi/pkg/fetch"
	"github.com/wanifuchi/seonavi/pkg/storage"
)

func testServer(t *testing.T, html string) *Server {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return &Server{
		DB: db,
		Fetch: func(_ context.Context, pageURL string) (*fetch.Page, error) {
			return &fetch.Page{URL: pageURL, FinalURL: pageURL, StatusCode: 200, HTML: html}, nil
		},
	}
}

func TestHandleAudit(t *testing.T) {
	srv := testServer(t, `<html><head><title>会館</title></head><body>よくある質問</body></html>`)

	req := httptest.NewRequest(http.MethodPost, "/api/audit",
		strings.NewReader(`{"url":"https://example.jp/","save":true}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuditResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result == nil || resp.Result.URL != "https://example.jp/" {
		t.Fatalf("result = %+v", resp.Result)
	}
	if len(resp.Result.MissingHigh) != 3 {
		t.Errorf("high gaps = %d, want 3", len(resp.Result.MissingHigh))
	}
	if resp.Markdown == "" {
		t.Error("no markdown in response")
	}
	if resp.SavedID == 0 {
		t.Error("save requested but no row ID returned")
	}

	// The saved audit is visible through the listing endpoint.
	listReq := httptest.NewRequest(http.MethodGet, "/api/audits?domain=example.jp", nil)
	listRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(listRec, listReq)
	var audits []storage.Audit
	if err := json.Unmarshal(listRec.Body.Bytes(), &audits); err != nil {
		t.Fatal(err)
	}
	if len(audits) != 1 {
		t.Errorf("listed audits = %d, want 1", len(audits))
	}
}

func TestHandleAuditMissingURL(t *testing.T) {
	srv := testServer(t, "<html></html>")

	req := httptest.NewRequest(http.MethodPost, "/api/audit", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleLatestAuditNotFound(t *testing.T) {
	srv := testServer(t, "<html></html>")

	req := httptest.NewRequest(http.MethodGet, "/api/audits/latest?url=https://nope.jp/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestBasicAuth(t *testing.T) {
	srv := testServer(t, "<html></html>")
	srv.Username = "admin"
	srv.Password = "secret"

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without credentials = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with credentials = %d, want 200", rec.Code)
	}
}
