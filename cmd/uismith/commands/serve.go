package commands

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/spf13/cobra"

	"github.com/uismith/uismith/pkg/forge"
	"github.com/uismith/uismith/pkg/kv"
	"github.com/uismith/uismith/pkg/session"
	"github.com/uismith/uismith/pkg/web"
)

var serveFlags struct {
	addr    string
	dataDir string
	memory  bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the generation server",
	Long: `Serve the playground page and the generation API.

Endpoints:
  GET  /                   Playground UI
  POST /api/generate       Generate (server-sent events)
  GET  /api/generate/ws    Generate (WebSocket)
  GET  /api/models         Configured model routes
  GET  /api/session/{id}   Stored artifacts for a session
  DELETE /api/session/{id} Drop a session

Session artifacts persist in a local Badger database unless --memory
is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mux, routes, err := loadProviders()
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		sessions := session.NewStore(store)

		o := &forge.Orchestrator{Gen: mux, Sessions: sessions}
		srv := web.NewServer(o, func() []string {
			sorted := append([]string(nil), routes...)
			sort.Strings(sorted)
			return sorted
		}, sessions)

		slog.Info("serving", "addr", serveFlags.addr, "models", len(routes))
		fmt.Printf("uismith playground at http://%s\n", serveFlags.addr)
		return http.ListenAndServe(serveFlags.addr, srv.Handler())
	},
}

func openStore() (kv.Store, error) {
	if serveFlags.memory {
		return kv.NewMemory(), nil
	}
	b, err := kv.NewBadger(kv.BadgerOptions{Dir: serveFlags.dataDir})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "localhost:8080", "listen address")
	serveCmd.Flags().StringVar(&serveFlags.dataDir, "data", "uismith-data", "session database directory")
	serveCmd.Flags().BoolVar(&serveFlags.memory, "memory", false, "keep sessions in memory only")
	rootCmd.AddCommand(serveCmd)
}
