package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"schemer/internal/adapters/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagram API and the static front end",
	Long: `Serve GET/POST /api/scheme/current, GET /api/scheme/render.png and the
static directory at /.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		static, _ := cmd.Flags().GetString("static")
		if addr == "" {
			addr = cfg.Server.Addr
		}
		if !cmd.Flags().Changed("static") {
			static = cfg.Server.StaticDir
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := httpapi.NewServer(httpapi.Config{
			Addr:         addr,
			StaticDir:    static,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
		}, GetRepo(), logger)
		info.Printf("Serving on %s\n", addr)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	serveCmd.Flags().String("static", "", "static files directory, empty disables")

	rootCmd.AddCommand(serveCmd)
}
