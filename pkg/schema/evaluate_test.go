package schema

import (
	"strings"
	"testing"
)

func propsOf(names ...string) Properties {
	props := make(Properties, 0, len(names))
	for _, n := range names {
		props = append(props, Property{Name: n, Value: "x"})
	}
	return props
}

func TestEvaluateLocalBusiness(t *testing.T) {
	complete := append([]string{}, localBusinessRequired...)
	complete = append(complete, localBusinessRecommended...)

	tests := []struct {
		name       string
		schemaType string
		props      Properties
		wantLabel  Label
		wantInNote string
	}{
		{
			name:       "all required and recommended present",
			schemaType: "FuneralHome",
			props:      propsOf(complete...),
			wantLabel:  LabelGood,
		},
		{
			name:       "missing required listed sorted",
			schemaType: "LocalBusiness",
			props:      propsOf("name"),
			wantLabel:  LabelWarning,
			wantInNote: "address, telephone",
		},
		{
			name:       "required ok but recommended missing",
			schemaType: "LocalBusiness",
			props:      propsOf("name", "address", "telephone"),
			wantLabel:  LabelWarning,
			wantInNote: "推奨プロパティ",
		},
		{
			name:       "substring Business triggers the family rule",
			schemaType: "HomeAndConstructionBusiness",
			props:      propsOf("name"),
			wantLabel:  LabelWarning,
			wantInNote: "必須プロパティ",
		},
		{
			name:       "joined type family match",
			schemaType: "LocalBusiness / FuneralHome",
			props:      propsOf("name", "address", "telephone"),
			wantLabel:  LabelWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluate(tt.schemaType, tt.props)
			if ev.Label != tt.wantLabel {
				t.Fatalf("label = %q, want %q (note: %s)", ev.Label, tt.wantLabel, ev.Note)
			}
			if tt.wantInNote != "" && !strings.Contains(ev.Note, tt.wantInNote) {
				t.Errorf("note = %q, want it to contain %q", ev.Note, tt.wantInNote)
			}
		})
	}
}

// Removing a required property from a complete item can only move the label
// toward warning, never back toward good.
func TestEvaluateLocalBusinessMonotonic(t *testing.T) {
	complete := append([]string{}, localBusinessRequired...)
	complete = append(complete, localBusinessRecommended...)

	if ev := Evaluate("FuneralHome", propsOf(complete...)); ev.Label != LabelGood {
		t.Fatalf("complete item label = %q, want good", ev.Label)
	}

	for _, drop := range localBusinessRequired {
		var reduced []string
		for _, n := range complete {
			if n != drop {
				reduced = append(reduced, n)
			}
		}
		ev := Evaluate("FuneralHome", propsOf(reduced...))
		if ev.Label == LabelGood {
			t.Errorf("dropping required %q still evaluates good", drop)
		}
	}
}

func TestEvaluateBreadcrumb(t *testing.T) {
	nonEmpty := Properties{{Name: "itemListElement", Value: []any{map[string]any{"position": 1.0}}}}
	if ev := Evaluate("BreadcrumbList", nonEmpty); ev.Label != LabelGood {
		t.Errorf("non-empty list label = %q, want good", ev.Label)
	}

	empty := Properties{{Name: "itemListElement", Value: []any{}}}
	if ev := Evaluate("BreadcrumbList", empty); ev.Label != LabelWarning {
		t.Errorf("empty list label = %q, want warning", ev.Label)
	}

	if ev := Evaluate("BreadcrumbList", Properties{}); ev.Label != LabelWarning {
		t.Errorf("absent list label = %q, want warning", ev.Label)
	}
}

func TestEvaluateFAQBoundary(t *testing.T) {
	entries := func(n int) Properties {
		list := make([]any, n)
		for i := range list {
			list[i] = map[string]any{"@type": "Question"}
		}
		return Properties{{Name: "mainEntity", Value: list}}
	}

	if ev := Evaluate("FAQPage", entries(3)); ev.Label != LabelGood {
		t.Errorf("3 entries label = %q, want good (note: %s)", ev.Label, ev.Note)
	}

	ev := Evaluate("FAQPage", entries(2))
	if ev.Label != LabelWarning {
		t.Errorf("2 entries label = %q, want warning", ev.Label)
	}
	if !strings.Contains(ev.Note, "2") {
		t.Errorf("note = %q, want it to report the count 2", ev.Note)
	}

	ev = Evaluate("FAQPage", Properties{{Name: "name", Value: "faq"}})
	if ev.Label != LabelWarning || !strings.Contains(ev.Note, "0") {
		t.Errorf("absent mainEntity: label = %q, note = %q", ev.Label, ev.Note)
	}
}

func TestEvaluateGenericFallback(t *testing.T) {
	if ev := Evaluate("WebPage", Properties{}); ev.Label != LabelError {
		t.Errorf("empty properties label = %q, want error", ev.Label)
	}

	ev := Evaluate("WebPage", propsOf("name", "url"))
	if ev.Label != LabelGood {
		t.Errorf("label = %q, want good", ev.Label)
	}
	if !strings.Contains(ev.Note, "2") {
		t.Errorf("note = %q, want the property count", ev.Note)
	}
}
