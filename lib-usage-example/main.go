package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/wanifuchi/seonavi/pkg/fetch"
	"github.com/wanifuchi/seonavi/pkg/schema"
)

func main() {
	// Usage: go run main.go -url "https://example.jp/"

	urlFlag := flag.String("url", "", "Page URL to audit")
	flag.Parse()

	if *urlFlag == "" {
		fmt.Println("URL is required. Please provide it using the -url flag.")
		return
	}

	page, err := fetch.Fetch(context.Background(), *urlFlag, fetch.Options{Timeout: 30 * time.Second})
	if err != nil {
		fmt.Println("fetch failed:", err)
		return
	}

	result := schema.AuditPage(page.HTML, *urlFlag)

	fmt.Printf("structured data items: %d\n", len(result.Items))
	for _, it := range result.Items {
		fmt.Printf("  [%s] %s -> %s\n", it.Source, it.SchemaType, it.Evaluation.Label)
	}
	for _, gap := range result.MissingHigh {
		fmt.Printf("missing (high): %s\n", gap.Type)
	}
	fmt.Printf("score: %d\n", schema.Score(result))
}
