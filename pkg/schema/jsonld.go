package schema

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"
)

// jsonLDExtractor reads every <script type="application/ld+json"> block.
type jsonLDExtractor struct{}

func (jsonLDExtractor) Source() Source { return SourceJSONLD }

func (e jsonLDExtractor) Extract(doc *goquery.Document) []Item {
	var items []Item
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		items = append(items, parseJSONLDBlock(strings.TrimSpace(s.Text()))...)
	})
	return items
}

// parseJSONLDBlock decodes one script block. A malformed block degrades to a
// single error-labeled item so that sibling blocks are unaffected.
func parseJSONLDBlock(raw string) []Item {
	var probe any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		note := "JSONの解析に失敗しました: " + truncate(err.Error(), 120)
		// A repairable block (trailing comma, single quotes, ...) is still
		// reported as an error, but the note tells the user it is salvageable.
		if fixed, repairErr := jsonrepair.JSONRepair(raw); repairErr == nil && gjson.Valid(fixed) {
			note += "（軽微な構文エラーのため自動修復が可能です）"
		}
		return []Item{{
			SchemaType: TypeParseError,
			Source:     SourceJSONLD,
			Properties: Properties{},
			RawSnippet: truncate(raw, errSnippetLimit),
			Evaluation: Evaluation{Label: LabelError, Note: note},
		}}
	}

	root := gjson.Parse(raw)

	// A @graph wrapper is expanded into one item per member node; the
	// wrapper itself is never emitted.
	if graph := root.Get("@graph"); graph.Exists() && graph.IsArray() {
		var items []Item
		graph.ForEach(func(_, node gjson.Result) bool {
			items = append(items, itemFromNode(node))
			return true
		})
		return items
	}

	return []Item{itemFromNode(root)}
}

// itemFromNode converts one JSON-LD node into an Item. Keys starting with "@"
// are metadata and excluded from properties. gjson's ForEach walks keys in
// document order, which keeps the property order of the source.
func itemFromNode(node gjson.Result) Item {
	props := Properties{}
	node.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if strings.HasPrefix(name, "@") {
			return true
		}
		props = append(props, Property{Name: name, Value: value.Value()})
		return true
	})

	return Item{
		SchemaType: jsonLDType(node.Get("@type")),
		Source:     SourceJSONLD,
		Properties: props,
		RawSnippet: truncate(node.Raw, rawSnippetLimit),
	}
}

// jsonLDType renders the @type field: absent types become TypeUnknown and
// type arrays are joined with " / " for display.
func jsonLDType(t gjson.Result) string {
	if !t.Exists() {
		return TypeUnknown
	}
	if t.IsArray() {
		var parts []string
		t.ForEach(func(_, v gjson.Result) bool {
			parts = append(parts, v.String())
			return true
		})
		return strings.Join(parts, " / ")
	}
	return t.String()
}
