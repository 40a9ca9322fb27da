package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr        string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:          "parley",
		Short:        "Run the parley chat server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = addr
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}

			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))

			srv := chat.NewServer(chat.Options{
				Addr:         cfg.ListenAddr,
				MetricsAddr:  cfg.MetricsAddr,
				HistoryLimit: cfg.HistoryLimit,
				Exporter:     chat.FileExporter{Dir: cfg.ExportDir},
				Logger:       logger,
			})
			if err := srv.Start(); err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}

			// The console owns the terminal; logs go to stderr above so
			// the prompt stays readable.
			consoleDone := make(chan struct{})
			go func() {
				chat.NewConsole(srv, os.Stdin, os.Stdout).Run()
				close(consoleDone)
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			select {
			case <-sigCh:
			case <-consoleDone:
			}

			srv.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":5000", "chat listen address")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "metrics listen address")
	return cmd
}
