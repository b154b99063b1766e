package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RenderMarkdown renders an audit result as standalone Markdown. Output is a
// deterministic function of the result: no timestamps, no randomness, stable
// table column counts.
func RenderMarkdown(r *AuditResult) string {
	var b strings.Builder

	b.WriteString("# 構造化データ監査レポート\n\n")
	fmt.Fprintf(&b, "- 対象URL: %s\n", r.URL)
	fmt.Fprintf(&b, "- ドメイン: %s\n\n", cellOrDash(r.PageInfo["domain"]))

	fmt.Fprintf(&b, "## 検出された構造化データ（%d件）\n\n", len(r.Items))
	if len(r.Items) == 0 {
		b.WriteString("構造化データは検出されませんでした。\n\n")
	} else {
		b.WriteString("| # | タイプ | ソース | 評価 | 備考 |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for i, it := range r.Items {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				i+1,
				escapeCell(it.SchemaType),
				it.Source,
				labelMark(it.Evaluation.Label),
				escapeCell(it.Evaluation.Note),
			)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 不足している構造化データ\n\n")
	writeGapSection(&b, "優先度: 高", r.MissingHigh)
	writeGapSection(&b, "優先度: 中", r.MissingMid)
	writeGapSection(&b, "優先度: 低", r.MissingLow)

	b.WriteString("## 推奨JSON-LD\n\n")
	if len(r.Snippets) == 0 {
		b.WriteString("追加を推奨するJSON-LDはありません。\n\n")
	}
	for _, sn := range r.Snippets {
		fmt.Fprintf(&b, "### %s\n\n", sn.Type)
		payload, err := json.MarshalIndent(sn.Schema, "", "  ")
		if err != nil {
			payload = []byte("{}")
		}
		b.WriteString("```json\n")
		b.Write(payload)
		b.WriteString("\n```\n\n")
	}

	b.WriteString("## ページ情報\n\n")
	b.WriteString("| 項目 | 値 |\n")
	b.WriteString("| --- | --- |\n")
	for _, key := range PageInfoKeys {
		fmt.Fprintf(&b, "| %s | %s |\n", key, escapeCell(cellOrDash(r.PageInfo[key])))
	}

	return b.String()
}

func writeGapSection(b *strings.Builder, heading string, gaps []Gap) {
	fmt.Fprintf(b, "### %s\n\n", heading)
	if len(gaps) == 0 {
		b.WriteString("なし\n\n")
		return
	}
	b.WriteString("| タイプ | 理由 |\n")
	b.WriteString("| --- | --- |\n")
	for _, g := range gaps {
		fmt.Fprintf(b, "| %s | %s |\n", escapeCell(g.Type), escapeCell(g.Reason))
	}
	b.WriteString("\n")
}

func labelMark(l Label) string {
	switch l {
	case LabelGood:
		return "✅ good"
	case LabelWarning:
		return "⚠️ warning"
	case LabelError:
		return "❌ error"
	}
	return string(l)
}

// escapeCell keeps table column counts stable when values contain pipes or
// newlines.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func cellOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
