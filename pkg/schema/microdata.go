package schema

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// microdataExtractor reads itemscope/itemtype/itemprop attribute trees.
type microdataExtractor struct{}

func (microdataExtractor) Source() Source { return SourceMicrodata }

func (e microdataExtractor) Extract(doc *goquery.Document) []Item {
	var items []Item
	doc.Find("[itemscope]").Each(func(_ int, s *goquery.Selection) {
		schemaType := TypeUnknown
		if itemType := strings.TrimSpace(s.AttrOr("itemtype", "")); itemType != "" {
			// Only the last path segment of the itemtype URL matters
			// (https://schema.org/FuneralHome -> FuneralHome).
			segments := strings.Split(strings.TrimSuffix(itemType, "/"), "/")
			schemaType = segments[len(segments)-1]
		}

		props := Properties{}
		// Descendant search is not fenced at nested itemscope boundaries, so
		// a nested scope's properties also appear on the parent. Accepted
		// behavior: the report counts them as present either way.
		s.Find("[itemprop]").Each(func(_ int, p *goquery.Selection) {
			name := strings.TrimSpace(p.AttrOr("itemprop", ""))
			if name == "" {
				return
			}
			props = append(props, Property{Name: name, Value: microdataValue(p)})
		})

		items = append(items, Item{
			SchemaType: schemaType,
			Source:     SourceMicrodata,
			Properties: props,
		})
	})
	return items
}

// microdataValue resolves a property value with the fixed precedence
// content > href > src > visible text (capped).
func microdataValue(p *goquery.Selection) string {
	if v, ok := p.Attr("content"); ok {
		return v
	}
	if v, ok := p.Attr("href"); ok {
		return v
	}
	if v, ok := p.Attr("src"); ok {
		return v
	}
	return truncate(strings.TrimSpace(p.Text()), textValueLimit)
}
