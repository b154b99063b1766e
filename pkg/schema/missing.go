package schema

import "strings"

// Indicator word lists for content-signal checks. Data, not control flow, so
// they can be tested and extended on their own.
var (
	faqIndicators = []string{"FAQ", "Q&A", "よくある質問", "Q.", "A."}

	reviewIndicators = []string{"口コミ", "レビュー", "お客様の声", "評判", "★"}
)

// DetectMissing decides which high-value schema types are absent from the
// page and buckets each gap by priority. foundTypes are the raw schemaType
// strings of every extracted item; pageText is the page's visible text.
// Every check is an independent boolean test, so the order below fixes only
// the display order within each bucket.
func DetectMissing(foundTypes []string, pageText string) (high, mid, low []Gap) {
	found := splitFoundTypes(foundTypes)

	hasLocalBusiness := false
	for t := range found {
		if isLocalBusinessType(t) {
			hasLocalBusiness = true
			break
		}
	}

	if !hasLocalBusiness {
		high = append(high, Gap{
			Type:   "LocalBusiness / FuneralHome",
			Reason: "地図検索・ローカルSEOの中核となるスキーマが未実装です",
		})
	}
	if !found["BreadcrumbList"] {
		high = append(high, Gap{
			Type:   "BreadcrumbList",
			Reason: "パンくずのリッチリザルト表示によるCTR向上が見込めます",
		})
	}
	if containsAny(pageText, faqIndicators) && !found["FAQPage"] {
		high = append(high, Gap{
			Type:   "FAQPage",
			Reason: "FAQコンテンツが存在するのにマークアップされていません",
		})
	}

	if containsAny(pageText, reviewIndicators) && !found["AggregateRating"] {
		mid = append(mid, Gap{
			Type:   "AggregateRating",
			Reason: "口コミ・評価のコンテンツがあるのに評価スキーマがありません",
		})
	}
	if !found["Service"] {
		mid = append(mid, Gap{
			Type:   "Service",
			Reason: "提供サービスの明示はどのページでも有効です",
		})
	}
	if !found["WebSite"] {
		mid = append(mid, Gap{
			Type:   "WebSite",
			Reason: "サイトリンク検索ボックスの表示対象になります",
		})
	}

	if !found["ImageObject"] {
		low = append(low, Gap{
			Type:   "ImageObject",
			Reason: "画像検索からの流入強化に有効です",
		})
	}

	return high, mid, low
}

// splitFoundTypes flattens " / "-joined type declarations into a set of
// individual type names.
func splitFoundTypes(foundTypes []string) map[string]bool {
	found := make(map[string]bool, len(foundTypes))
	for _, joined := range foundTypes {
		for _, t := range strings.Split(joined, " / ") {
			if t = strings.TrimSpace(t); t != "" {
				found[t] = true
			}
		}
	}
	return found
}

func containsAny(text string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			return true
		}
	}
	return false
}
