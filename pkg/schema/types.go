// Package schema implements the structured-data audit engine: it extracts
// JSON-LD, Microdata and RDFa blocks from an HTML document, evaluates each
// block's completeness against a fixed rule table, detects high-value schema
// types that are missing from the page, and generates ready-to-publish
// JSON-LD for the most important gaps.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Source identifies where a structured-data item was extracted from.
type Source string

const (
	SourceJSONLD    Source = "json-ld"
	SourceMicrodata Source = "microdata"
	SourceRDFa      Source = "rdfa"
)

// Label is the completeness classification of one item.
type Label string

const (
	LabelGood    Label = "good"
	LabelWarning Label = "warning"
	LabelError   Label = "error"
)

// TypeUnknown is used when a block declares no type at all.
const TypeUnknown = "不明"

// TypeParseError marks an item that stands in for an unparseable JSON-LD block.
const TypeParseError = "(parse error)"

// Property is a single name/value pair. Values are strings for Microdata and
// RDFa; JSON-LD values may be nested maps or lists.
type Property struct {
	Name  string
	Value any
}

// Properties preserves the order in which properties appeared in the source
// document.
type Properties []Property

// Get returns the value of the named property.
func (p Properties) Get(name string) (any, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return nil, false
}

// Has reports whether the named property is present.
func (p Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// MarshalJSON renders the properties as a JSON object, keeping source order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(prop.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object back into the ordered representation,
// keeping key order as encountered in the input.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties: expected a JSON object, got %v", tok)
	}

	out := Properties{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("properties: unexpected key token %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, Property{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = out
	return nil
}

// Evaluation is the completeness verdict attached to an item.
type Evaluation struct {
	Label Label  `json:"label"`
	Note  string `json:"note"`
}

// Item is one structured-data instance discovered on a page.
type Item struct {
	SchemaType string     `json:"schema_type"`
	Source     Source     `json:"source"`
	Properties Properties `json:"properties"`
	RawSnippet string     `json:"raw_snippet,omitempty"`
	Evaluation Evaluation `json:"evaluation"`
}

// Gap is a schema type judged valuable for the page but absent from it.
type Gap struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Snippet is one generated JSON-LD document suggested for publication.
type Snippet struct {
	Priority string         `json:"priority"`
	Type     string         `json:"type"`
	Schema   map[string]any `json:"schema"`
}

// PageInfo carries metadata heuristically extracted from the page text.
// Every key is always present; a failed extraction yields an empty string.
type PageInfo map[string]string

// PageInfoKeys lists the keys every PageInfo contains, in display order.
var PageInfoKeys = []string{
	"title",
	"telephone",
	"postal_code",
	"address",
	"opening_hours",
	"url",
	"domain",
}

// AuditResult is the aggregate outcome of auditing one page.
type AuditResult struct {
	URL         string    `json:"url"`
	Items       []Item    `json:"items"`
	MissingHigh []Gap     `json:"missing_high"`
	MissingMid  []Gap     `json:"missing_mid"`
	MissingLow  []Gap     `json:"missing_low"`
	Snippets    []Snippet `json:"snippets"`
	PageInfo    PageInfo  `json:"page_info"`
}
