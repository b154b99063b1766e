package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Rule tables for the evaluator. These are exact business rules: the
// thresholds and property sets are load-bearing, not illustrative.
var (
	// localBusinessTypes is the type family treated as a local business.
	// Any schemaType containing the substring "Business" also qualifies.
	localBusinessTypes = []string{
		"LocalBusiness",
		"FuneralHome",
		"Store",
		"ProfessionalService",
	}

	localBusinessRequired = []string{"name", "address", "telephone"}

	localBusinessRecommended = []string{
		"openingHours",
		"url",
		"image",
		"priceRange",
		"geo",
		"sameAs",
		"description",
		"areaServed",
	}
)

// faqGoodThreshold is the minimum mainEntity count for a FAQPage to be
// considered well populated.
const faqGoodThreshold = 3

// isLocalBusinessType reports whether a declared type belongs to the local
// business family. schemaType may be a " / "-joined list, so membership is a
// substring test.
func isLocalBusinessType(schemaType string) bool {
	for _, t := range localBusinessTypes {
		if strings.Contains(schemaType, t) {
			return true
		}
	}
	return strings.Contains(schemaType, "Business")
}

// Evaluate classifies one item's completeness. Pure function of the declared
// type and property set.
func Evaluate(schemaType string, props Properties) Evaluation {
	switch {
	case isLocalBusinessType(schemaType):
		return evaluateLocalBusiness(props)
	case schemaType == "BreadcrumbList":
		return evaluateBreadcrumb(props)
	case schemaType == "FAQPage":
		return evaluateFAQ(props)
	}

	if len(props) == 0 {
		return Evaluation{Label: LabelError, Note: "プロパティが空です"}
	}
	return Evaluation{
		Label: LabelGood,
		Note:  fmt.Sprintf("%d件のプロパティが定義されています", len(props)),
	}
}

func evaluateLocalBusiness(props Properties) Evaluation {
	if missing := missingFrom(props, localBusinessRequired); len(missing) > 0 {
		return Evaluation{
			Label: LabelWarning,
			Note:  "必須プロパティが不足しています: " + strings.Join(missing, ", "),
		}
	}
	if missing := missingFrom(props, localBusinessRecommended); len(missing) > 0 {
		return Evaluation{
			Label: LabelWarning,
			Note:  "推奨プロパティが不足しています: " + strings.Join(missing, ", "),
		}
	}
	return Evaluation{Label: LabelGood, Note: "必須・推奨プロパティがすべて定義されています"}
}

func evaluateBreadcrumb(props Properties) Evaluation {
	if v, ok := props.Get("itemListElement"); ok && listLen(v) > 0 {
		return Evaluation{Label: LabelGood, Note: "パンくずリストが定義されています"}
	}
	return Evaluation{Label: LabelWarning, Note: "itemListElement が空か未定義です"}
}

func evaluateFAQ(props Properties) Evaluation {
	count := 0
	if v, ok := props.Get("mainEntity"); ok {
		count = listLen(v)
	}
	if count >= faqGoodThreshold {
		return Evaluation{
			Label: LabelGood,
			Note:  fmt.Sprintf("FAQが%d件マークアップされています", count),
		}
	}
	return Evaluation{
		Label: LabelWarning,
		Note:  fmt.Sprintf("FAQの件数が%d件です（%d件以上を推奨）", count, faqGoodThreshold),
	}
}

// missingFrom returns the wanted property names absent from props, sorted.
func missingFrom(props Properties, wanted []string) []string {
	var missing []string
	for _, name := range wanted {
		if !props.Has(name) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// listLen reports the length of a list-valued property, 0 for anything that
// is not a list. A lone nested object counts as a single entry.
func listLen(v any) int {
	switch val := v.(type) {
	case []any:
		return len(val)
	case map[string]any:
		return 1
	}
	return 0
}
