// Package fetch retrieves a page's HTML for auditing. It is the only place
// network access happens; the audit engine itself never fetches anything.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html/charset"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:83.0) Gecko/20100101 Firefox/83.0"

// Options controls a fetch. The zero value is usable.
type Options struct {
	Timeout    time.Duration // total request timeout, default 30s
	MaxRetries int           // retryablehttp retry count, default 3
	Proxy      string        // optional HTTP proxy URL
	UserAgent  string
}

// Page is a fetched, UTF-8-decoded document ready for the audit engine.
type Page struct {
	URL        string // requested URL
	FinalURL   string // URL after redirects
	StatusCode int
	HTML       string
}

// Fetch downloads pageURL and returns its body decoded to UTF-8. Non-2xx
// responses are errors: the audit engine must never run on an error page by
// accident.
func Fetch(ctx context.Context, pageURL string, opts Options) (*Page, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", pageURL, err)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", "ja,en;q=0.5")
	req.Header.Set("Cache-Control", "no-transform")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pageURL, err)
	}

	decoded, err := decodeToUTF8(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", pageURL, err)
	}

	return &Page{
		URL:        pageURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       decoded,
	}, nil
}

func newClient(opts Options) (*retryablehttp.Client, error) {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = opts.MaxRetries
	if client.RetryMax <= 0 {
		client.RetryMax = 3
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.HTTPClient.Timeout = timeout

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		client.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return client, nil
}

// decodeToUTF8 converts the response body using the charset declared in the
// Content-Type header or sniffed from the document, falling back to the raw
// bytes when they are already valid UTF-8.
func decodeToUTF8(body []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		if utf8.Valid(body) {
			return string(body), nil
		}
		return "", err
	}
	return string(decoded), nil
}
