package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wanifuchi/seonavi/pkg/storage"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored audits (newest first)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath, _ := cmd.Flags().GetString("dbpath")
		domain, _ := cmd.Flags().GetString("domain")
		limit, _ := cmd.Flags().GetInt("limit")
		if dbPath == "" {
			dbPath = "seonavi.sqlite"
		}
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database not found: %s", dbPath)
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		audits, err := db.ListAudits(context.Background(), storage.ListOptions{
			Domain: domain,
			Limit:  limit,
		})
		if err != nil {
			return err
		}
		if len(audits) == 0 {
			fmt.Println("No stored audits.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DATE\tSCORE\tITEMS\tGAPS\tDOMAIN\tURL")
		for _, a := range audits {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n",
				a.CreatedAt.Format("2006-01-02 15:04:05"),
				a.Score, a.ItemCount, a.GapCount, a.Domain, a.URL)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: seonavi.sqlite in CWD)")
	historyCmd.Flags().String("domain", "", "Only show audits for this registrable domain")
	historyCmd.Flags().Int("limit", 50, "Number of audits to show")
}
