package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"chapterops/internal/server"
	"chapterops/internal/statestore"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveData string
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wizard API (and the local tag-batch receiver)",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir := serveData
		if dataDir == "" {
			dataDir = filepath.Join(cfg.DataPath, "data")
		}

		store, err := statestore.Open(cfg.StateDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		srv, err := server.New(dataDir, cat, store)
		if err != nil {
			return err
		}

		if serveOpen {
			go func() {
				time.Sleep(300 * time.Millisecond)
				url := fmt.Sprintf("http://localhost%s/api/catalog", listenPort(serveAddr))
				if err := browser.OpenURL(url); err != nil {
					log.Warn().Err(err).Msg("Could not open browser")
				}
			}()
		}

		return srv.Start(serveAddr)
	},
}

func listenPort(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ":" + addr
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "http listen address (host:port)")
	serveCmd.Flags().StringVar(&serveData, "data", "", "data directory containing history.csv/events.csv")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the API in the default browser")
	rootCmd.AddCommand(serveCmd)
}
