package schema

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseStructuredData extracts every structured-data block from an HTML
// document and evaluates each one. It never fails on malformed HTML; a
// malformed individual JSON-LD block degrades to a single error item. The
// second return value is the host derived from baseURL, empty when the URL
// does not parse.
func ParseStructuredData(html, baseURL string) ([]Item, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return []Item{}, domainOf(baseURL)
	}
	return extractAll(doc), domainOf(baseURL)
}

// extractAll runs the three extractors in fixed order and evaluates each
// item as it is produced. Parse-error items arrive pre-labeled and are not
// re-evaluated.
func extractAll(doc *goquery.Document) []Item {
	items := []Item{}
	for _, ex := range extractors {
		for _, item := range ex.Extract(doc) {
			if item.Evaluation.Label == "" {
				item.Evaluation = Evaluate(item.SchemaType, item.Properties)
			}
			items = append(items, item)
		}
	}
	return items
}

// AuditPage is the single composed entry point: it extracts and evaluates
// all structured data, detects missing schema types, extracts page metadata
// and synthesizes JSON-LD for the high-priority gaps. The computation is
// pure and deterministic: identical input yields an identical result.
func AuditPage(html, pageURL string) *AuditResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))

	items := []Item{}
	title := ""
	text := ""
	if err == nil {
		// Extraction reads script tags, so it must run before visibleText
		// strips them from the document.
		items = extractAll(doc)
		title = strings.TrimSpace(doc.Find("title").First().Text())
		text = visibleText(doc)
	}

	info := pageInfoFrom(title, text, pageURL)

	foundTypes := make([]string, 0, len(items))
	for _, it := range items {
		foundTypes = append(foundTypes, it.SchemaType)
	}

	high, mid, low := DetectMissing(foundTypes, text)
	snippets := GenerateSnippets(items, text, info)

	return &AuditResult{
		URL:         pageURL,
		Items:       items,
		MissingHigh: high,
		MissingMid:  mid,
		MissingLow:  low,
		Snippets:    snippets,
		PageInfo:    info,
	}
}

// Score condenses an audit into a 0-100 number for history tracking. Not
// part of the report itself; stored alongside saved audits so successive
// runs of the same URL can be compared.
func Score(r *AuditResult) int {
	score := 100
	for _, it := range r.Items {
		switch it.Evaluation.Label {
		case LabelWarning:
			score -= 5
		case LabelError:
			score -= 10
		}
	}
	score -= 15 * len(r.MissingHigh)
	score -= 7 * len(r.MissingMid)
	score -= 3 * len(r.MissingLow)
	if score < 0 {
		score = 0
	}
	return score
}
