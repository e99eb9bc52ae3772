package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-engine/internal/app"
	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Minesweeper board engine and game host",
	Long: `minesweeper hosts Minesweeper games over HTTP and websockets.

Start the server with settings from the environment
	minesweeper serve

Override the listen address and enable debug logging
	minesweeper serve --addr :9000 --development
`,
	SilenceUsage: true,
}

var serveFlags struct {
	addr        string
	development bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game API until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewApp()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveFlags.addr
		}
		if cmd.Flags().Changed("development") {
			cfg.Development = serveFlags.development
		}

		log, err := config.NewLogger(cfg)
		if err != nil {
			return err
		}
		mines.Log = log
		log.WithFields(cfg.Fields()).Info("config loaded")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		a, err := app.New(log, cfg)
		if err != nil {
			return err
		}
		if err := a.Start(ctx); err != nil {
			log.WithError(err).Error("server stopped")
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "Address to listen on, overrides APP_ADDR")
	serveCmd.Flags().BoolVarP(&serveFlags.development, "development", "d", false, "Debug logging and permissive websocket origins, overrides DEVELOPMENT")
	rootCmd.AddCommand(serveCmd)
}
