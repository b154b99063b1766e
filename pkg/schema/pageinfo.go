package schema

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text-heuristic patterns for Japanese business pages. First match wins.
var (
	// Domestic 0-prefixed numbers (03-1234-5678, 090 1234 5678) or the +81
	// international form.
	telephoneRe = regexp.MustCompile(`\+81[-\s]?\d{1,4}[-\s]?\d{1,4}[-\s]?\d{3,4}|0\d{1,4}[-\s]\d{1,4}[-\s]\d{3,4}`)

	// 〒123-4567 style, postal mark stripped from the result.
	postalCodeRe = regexp.MustCompile(`〒\s*(\d{3})[-ー−](\d{4})`)

	// A prefecture name (the four non-standard ones spelled out, otherwise
	// 2-3 kanji ending in 県) followed within 2-50 chars by an address-unit
	// suffix.
	addressRe = regexp.MustCompile(`(?:東京都|北海道|大阪府|京都府|[\x{4E00}-\x{9FFF}]{2,3}県).{2,50}?(?:丁目|番地|番|号|ビル|階|館)`)

	// HH:MM-HH:MM ranges with the dash/tilde variants seen in the wild.
	openingHoursRe = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[〜~\-ー−–]\s*(\d{1,2}:\d{2})`)
)

// ExtractPageInfo pulls business metadata out of the raw page. Every key in
// PageInfoKeys is always present; extraction misses yield empty strings, so
// consumers only ever test for emptiness.
func ExtractPageInfo(html, pageURL string) PageInfo {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc = nil
	}

	title := ""
	text := ""
	if doc != nil {
		title = strings.TrimSpace(doc.Find("title").First().Text())
		text = visibleText(doc)
	}

	return pageInfoFrom(title, text, pageURL)
}

func pageInfoFrom(title, text, pageURL string) PageInfo {
	info := PageInfo{
		"title":         title,
		"telephone":     telephoneRe.FindString(text),
		"postal_code":   "",
		"address":       addressRe.FindString(text),
		"opening_hours": "",
		"url":           pageURL,
		"domain":        domainOf(pageURL),
	}

	if m := postalCodeRe.FindStringSubmatch(text); m != nil {
		info["postal_code"] = m[1] + "-" + m[2]
	}
	if m := openingHoursRe.FindStringSubmatch(text); m != nil {
		info["opening_hours"] = m[1] + "-" + m[2]
	}

	return info
}

// domainOf derives the host of a URL, empty when the URL does not parse.
func domainOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// visibleText returns the document's human-visible text with scripts,
// styles and noscript content removed and whitespace collapsed. Mutates the
// document, so structured-data extraction has to happen first.
func visibleText(doc *goquery.Document) string {
	doc.Find("script,noscript,style").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(doc.Text(), " "))
}

var whitespaceRe = regexp.MustCompile(`[ \t\r\n\f]+`)
