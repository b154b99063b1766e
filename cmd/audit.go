package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wanifuchi/seonavi/internal/utils"
	"github.com/wanifuchi/seonavi/pkg/fetch"
	"github.com/wanifuchi/seonavi/pkg/schema"
	"github.com/wanifuchi/seonavi/pkg/storage"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit [url]",
	Short: "Audit a page's structured data and print the report",
	Long: `Audit a page's structured data and print the report.

Fetches the URL (or reads a local HTML file with --file), extracts all
JSON-LD / Microdata / RDFa markup, grades it, and prints the gap report
as Markdown. Use --json for the raw result and --save to record the run
in the local history database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, _ := cmd.Flags().GetString("file")
		pageURL, _ := cmd.Flags().GetString("url")
		asJSON, _ := cmd.Flags().GetBool("json")
		save, _ := cmd.Flags().GetBool("save")

		var html string
		switch {
		case filePath != "":
			data, err := os.ReadFile(filePath)
			if err != nil {
				return err
			}
			html = string(data)
			if pageURL == "" && len(args) == 1 {
				pageURL = args[0]
			}
		case len(args) == 1:
			pageURL = args[0]
			proxy, _ := rootCmd.PersistentFlags().GetString("proxy")
			timeout := time.Duration(viper.GetInt("fetch.timeout_seconds")) * time.Second

			utils.Log.Debugf("fetching %s", pageURL)
			page, err := fetch.Fetch(context.Background(), pageURL, fetch.Options{
				Timeout:    timeout,
				MaxRetries: viper.GetInt("fetch.max_retries"),
				Proxy:      proxy,
			})
			if err != nil {
				return err
			}
			html = page.HTML
		default:
			return fmt.Errorf("provide a URL to fetch or --file with a local HTML document")
		}

		result := schema.AuditPage(html, pageURL)
		markdown := schema.RenderMarkdown(result)

		if save {
			dbPath, _ := cmd.Flags().GetString("dbpath")
			if dbPath == "" {
				dbPath = "seonavi.sqlite"
			}
			db, err := storage.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			id, err := db.SaveAudit(context.Background(), result, markdown)
			if err != nil {
				return err
			}
			utils.Log.Infof("audit saved (id=%d, score=%d)", id, schema.Score(result))
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Println(markdown)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().String("file", "", "Audit a local HTML file instead of fetching")
	auditCmd.Flags().String("url", "", "Page URL for the report when auditing a local file")
	auditCmd.Flags().Bool("json", false, "Print the raw audit result as JSON")
	auditCmd.Flags().Bool("save", false, "Record the audit in the history database")
	auditCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: seonavi.sqlite in CWD)")
}
