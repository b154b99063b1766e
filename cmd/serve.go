package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wanifuchi/seonavi/internal/server"
	"github.com/wanifuchi/seonavi/pkg/fetch"
	"github.com/wanifuchi/seonavi/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the audit JSON API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		dbPath, _ := cmd.Flags().GetString("dbpath")
		if dbPath == "" {
			dbPath = "seonavi.sqlite"
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		proxy, _ := rootCmd.PersistentFlags().GetString("proxy")
		fetchOpts := fetch.Options{
			Timeout:    time.Duration(viper.GetInt("fetch.timeout_seconds")) * time.Second,
			MaxRetries: viper.GetInt("fetch.max_retries"),
			Proxy:      proxy,
		}

		srv := server.New(db,
			viper.GetString("server.username"),
			viper.GetString("server.password"),
			fetchOpts)
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: seonavi.sqlite in CWD)")
}
