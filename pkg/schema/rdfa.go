package schema

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rdfaExtractor reads typeof/property attribute trees.
type rdfaExtractor struct{}

func (rdfaExtractor) Source() Source { return SourceRDFa }

func (e rdfaExtractor) Extract(doc *goquery.Document) []Item {
	var items []Item
	doc.Find("[typeof]").Each(func(_ int, s *goquery.Selection) {
		// The typeof attribute value is taken as-is, prefixes included.
		schemaType := strings.TrimSpace(s.AttrOr("typeof", ""))
		if schemaType == "" {
			schemaType = TypeUnknown
		}

		props := Properties{}
		s.Find("[property]").Each(func(_ int, p *goquery.Selection) {
			name := strings.TrimSpace(p.AttrOr("property", ""))
			if name == "" {
				return
			}
			// Strip the namespace prefix: schema:name -> name.
			if i := strings.LastIndex(name, ":"); i >= 0 {
				name = name[i+1:]
			}
			value, ok := p.Attr("content")
			if !ok {
				value = truncate(strings.TrimSpace(p.Text()), textValueLimit)
			}
			props = append(props, Property{Name: name, Value: value})
		})

		items = append(items, Item{
			SchemaType: schemaType,
			Source:     SourceRDFa,
			Properties: props,
		})
	})
	return items
}
