package schema

import (
	"github.com/PuerkitoBio/goquery"
)

// Extractor pulls structured-data items of one source format out of a parsed
// document. The three formats share an output shape but nothing else, so each
// gets its own implementation.
type Extractor interface {
	Source() Source
	Extract(doc *goquery.Document) []Item
}

// extractors in fixed order: JSON-LD first, then Microdata, then RDFa.
// Extraction order determines item order in the audit result.
var extractors = []Extractor{
	jsonLDExtractor{},
	microdataExtractor{},
	rdfaExtractor{},
}

const (
	rawSnippetLimit = 500
	errSnippetLimit = 200
	textValueLimit  = 100
)

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
