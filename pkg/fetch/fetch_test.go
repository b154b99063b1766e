package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>テスト</title></head><body>ok</body></html>"))
	}))
	defer srv.Close()

	page, err := Fetch(context.Background(), srv.URL, Options{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if page.StatusCode != http.StatusOK {
		t.Errorf("status = %d", page.StatusCode)
	}
	if !strings.Contains(page.HTML, "テスト") {
		t.Errorf("body = %q", page.HTML)
	}
	if gotUA == "" {
		t.Error("no User-Agent sent")
	}
	if page.FinalURL == "" {
		t.Error("final URL not recorded")
	}
}

func TestFetchNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.URL, Options{Timeout: 5 * time.Second}); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}

func TestFetchFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	page, err := Fetch(context.Background(), srv.URL+"/start", Options{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(page.FinalURL, "/final") {
		t.Errorf("final URL = %q, want the redirect target", page.FinalURL)
	}
	if page.URL != srv.URL+"/start" {
		t.Errorf("requested URL = %q", page.URL)
	}
}

func TestDecodeToUTF8PassThrough(t *testing.T) {
	in := []byte("<html><body>そのままUTF-8</body></html>")
	out, err := decodeToUTF8(in, "text/html; charset=utf-8")
	if err != nil {
		t.Fatal(err)
	}
	if out != string(in) {
		t.Errorf("decoded = %q", out)
	}
}

func TestFetchInvalidProxy(t *testing.T) {
	if _, err := Fetch(context.Background(), "https://example.jp/", Options{Proxy: "://bad"}); err == nil {
		t.Fatal("expected an error for an invalid proxy URL")
	}
}
