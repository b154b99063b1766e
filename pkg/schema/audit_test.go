package schema

import (
	"bytes"
	"encoding/json"
	"testing"
)

// A page with no structured data at all still produces a full report: every
// applicable gap plus the three high-priority templates.
func TestAuditPageNoStructuredData(t *testing.T) {
	html := `<html><head><title>家族葬のご案内</title></head><body>
	<p>よくある質問：Q. 定休日は？ A. 年中無休です。</p>
	</body></html>`

	r := AuditPage(html, "https://example.jp/faq")

	if len(r.Items) != 0 {
		t.Fatalf("items = %d, want none", len(r.Items))
	}
	if len(r.MissingHigh) != 3 {
		t.Fatalf("high gaps = %v, want 3", gapTypes(r.MissingHigh))
	}
	if len(r.Snippets) != 3 {
		t.Fatalf("snippets = %d, want 3", len(r.Snippets))
	}

	wantTypes := map[string]bool{}
	for _, sn := range r.Snippets {
		wantTypes[string(sn.Schema["@type"].(string))] = true
	}
	for _, typ := range []string{generatedType, "BreadcrumbList", "FAQPage"} {
		if !wantTypes[typ] {
			t.Errorf("missing %s snippet, got %v", typ, wantTypes)
		}
	}
}

func TestAuditPageIdempotent(t *testing.T) {
	html := `<html><head><title>メモリアル会館 | 葬儀</title>
	<script type="application/ld+json">{"@type":"FuneralHome","name":"メモリアル会館","address":"新宿","telephone":"03-1234-5678"}</script>
	</head><body>
	<p>〒160-0023 東京都新宿区西新宿2丁目 よくある質問 ★口コミ</p>
	</body></html>`

	first := AuditPage(html, "https://example.jp/")
	second := AuditPage(html, "https://example.jp/")

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two audits of identical input are not byte-identical")
	}
	if RenderMarkdown(first) != RenderMarkdown(second) {
		t.Error("markdown rendering is not deterministic")
	}
}

func TestAuditPageMixedSources(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">{"@type":"WebSite","name":"site"}</script>
	</head><body>
	<div itemscope itemtype="https://schema.org/FuneralHome"><span itemprop="name">会館</span></div>
	<div typeof="BreadcrumbList"><span property="name">パンくず</span></div>
	</body></html>`

	r := AuditPage(html, "https://example.jp/")

	if len(r.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(r.Items))
	}
	// Fixed source order: JSON-LD, then Microdata, then RDFa.
	if r.Items[0].Source != SourceJSONLD || r.Items[1].Source != SourceMicrodata || r.Items[2].Source != SourceRDFa {
		t.Errorf("source order = %s, %s, %s",
			r.Items[0].Source, r.Items[1].Source, r.Items[2].Source)
	}

	// Every item carries an evaluation.
	for i, it := range r.Items {
		if it.Evaluation.Label == "" {
			t.Errorf("item %d has no evaluation", i)
		}
	}

	// FuneralHome and BreadcrumbList found, so those gaps are suppressed.
	if hasGap(r.MissingHigh, "LocalBusiness / FuneralHome") || hasGap(r.MissingHigh, "BreadcrumbList") {
		t.Errorf("high gaps = %v", gapTypes(r.MissingHigh))
	}
}

func TestParseStructuredDataEmptyDocument(t *testing.T) {
	items, domain := ParseStructuredData("", "https://example.jp/")
	if len(items) != 0 {
		t.Errorf("items = %d, want none", len(items))
	}
	if domain != "example.jp" {
		t.Errorf("domain = %q", domain)
	}
}

func TestScoreDeterministicAndBounded(t *testing.T) {
	r := AuditPage("<html><body>よくある質問</body></html>", "https://example.jp/")

	s := Score(r)
	if s != Score(r) {
		t.Error("score is not deterministic")
	}
	if s < 0 || s > 100 {
		t.Errorf("score = %d, want within [0,100]", s)
	}

	perfect := &AuditResult{}
	if Score(perfect) != 100 {
		t.Errorf("empty result score = %d, want 100", Score(perfect))
	}
}
