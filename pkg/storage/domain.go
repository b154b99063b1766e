package storage

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// RegistrableDomain reduces a page URL to its registrable domain
// (https://www.example.co.jp/page -> example.co.jp) so every page of one
// site lands in the same history bucket. Falls back to the bare host when
// the public-suffix lookup fails (IP addresses, localhost), and to "" when
// no host can be derived at all.
func RegistrableDomain(pageURL string) string {
	host := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		host = u.Hostname()
	} else {
		host = strings.Split(host, "/")[0]
		host = strings.Split(host, ":")[0]
		if !strings.Contains(host, ".") {
			return ""
		}
	}

	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return host
	}
	return domain
}
