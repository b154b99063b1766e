package schema

import (
	"net/url"
	"strings"
)

// Placeholder tokens inserted wherever page metadata could not be extracted.
// They are deliberately loud so a generated snippet is never published with
// a missing field silently dropped.
const (
	PlaceholderName        = "【店舗名を入力してください】"
	PlaceholderTelephone   = "【電話番号を入力してください】"
	PlaceholderAddress     = "【住所を入力してください】"
	PlaceholderPostalCode  = "【郵便番号を入力してください】"
	PlaceholderRegion      = "【都道府県を入力してください】"
	PlaceholderImage       = "【画像URLを入力してください】"
	PlaceholderDescription = "【事業内容の説明を入力してください】"
	PlaceholderSameAs      = "【SNS・ポータルサイトのURLを入力してください】"
	PlaceholderPageName    = "【このページの名称を入力してください】"
	PlaceholderPageURL     = "【このページのURLを入力してください】"
	PlaceholderQuestion    = "【想定される質問を入力してください】"
	PlaceholderAnswer      = "【質問への回答を入力してください】"
)

const (
	schemaContext     = "https://schema.org"
	defaultPriceRange = "¥¥"
	// generatedType is the industry-specific LocalBusiness subtype used for
	// synthesized snippets.
	generatedType = "FuneralHome"
)

var allWeek = []any{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// GenerateSnippets builds ready-to-publish JSON-LD for the most valuable
// missing (or weakly implemented) types. Only high-priority gaps are
// synthesized. Each snippet is a complete standalone document with its own
// @context; existing declarations are never merged with.
func GenerateSnippets(items []Item, pageText string, info PageInfo) []Snippet {
	var snippets []Snippet

	if needsLocalBusiness(items) {
		snippets = append(snippets, Snippet{
			Priority: "high",
			Type:     generatedType + "（地域ビジネス）",
			Schema:   buildLocalBusiness(info),
		})
	}

	if !hasFoundType(items, "BreadcrumbList") {
		snippets = append(snippets, Snippet{
			Priority: "high",
			Type:     "BreadcrumbList",
			Schema:   buildBreadcrumb(info),
		})
	}

	if containsAny(pageText, faqIndicators) && !hasFoundType(items, "FAQPage") {
		snippets = append(snippets, Snippet{
			Priority: "high",
			Type:     "FAQPage",
			Schema:   buildFAQ(),
		})
	}

	return snippets
}

// needsLocalBusiness is true when no local-business item exists, or one
// exists but its evaluation flagged missing properties.
func needsLocalBusiness(items []Item) bool {
	for _, it := range items {
		if !isLocalBusinessType(it.SchemaType) {
			continue
		}
		if it.Evaluation.Label == LabelWarning {
			return true
		}
		return false
	}
	return true
}

func hasFoundType(items []Item, name string) bool {
	for _, it := range items {
		if splitFoundTypes([]string{it.SchemaType})[name] {
			return true
		}
	}
	return false
}

func buildLocalBusiness(info PageInfo) map[string]any {
	name := PlaceholderName
	if title := info["title"]; title != "" {
		// Site titles are usually "店舗名 | キャッチコピー"; only the part
		// before the separator names the business.
		name = strings.TrimSpace(strings.SplitN(title, "|", 2)[0])
	}

	telephone := info["telephone"]
	if telephone == "" {
		telephone = PlaceholderTelephone
	}
	street := info["address"]
	if street == "" {
		street = PlaceholderAddress
	}
	postal := info["postal_code"]
	if postal == "" {
		postal = PlaceholderPostalCode
	}

	opens, closes := "00:00", "23:59"
	if oh := info["opening_hours"]; oh != "" {
		if parts := strings.SplitN(oh, "-", 2); len(parts) == 2 {
			opens, closes = parts[0], parts[1]
		}
	}

	return map[string]any{
		"@context":  schemaContext,
		"@type":     generatedType,
		"name":      name,
		"telephone": telephone,
		"url":       info["url"],
		"address": map[string]any{
			"@type":          "PostalAddress",
			"streetAddress":  street,
			"postalCode":     postal,
			"addressRegion":  PlaceholderRegion,
			"addressCountry": "JP",
		},
		"openingHoursSpecification": map[string]any{
			"@type":     "OpeningHoursSpecification",
			"dayOfWeek": allWeek,
			"opens":     opens,
			"closes":    closes,
		},
		"priceRange":  defaultPriceRange,
		"image":       PlaceholderImage,
		"description": PlaceholderDescription,
		"sameAs":      []any{PlaceholderSameAs},
	}
}

func buildBreadcrumb(info PageInfo) map[string]any {
	home := siteRoot(info["url"])
	return map[string]any{
		"@context": schemaContext,
		"@type":    "BreadcrumbList",
		"itemListElement": []any{
			map[string]any{
				"@type":    "ListItem",
				"position": 1,
				"name":     "ホーム",
				"item":     home,
			},
			map[string]any{
				"@type":    "ListItem",
				"position": 2,
				"name":     PlaceholderPageName,
				"item":     PlaceholderPageURL,
			},
		},
	}
}

func buildFAQ() map[string]any {
	qa := func() map[string]any {
		return map[string]any{
			"@type": "Question",
			"name":  PlaceholderQuestion,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  PlaceholderAnswer,
			},
		}
	}
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": []any{qa(), qa()},
	}
}

// siteRoot reduces a page URL to scheme://host/.
func siteRoot(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return pageURL
	}
	return u.Scheme + "://" + u.Host + "/"
}
