package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jnothman/searchgrid"
	"github.com/jnothman/searchgrid/internal/cli"
	"github.com/jnothman/searchgrid/internal/logging"
	"github.com/jnothman/searchgrid/internal/server"
	"github.com/jnothman/searchgrid/pkg/components"
	"github.com/jnothman/searchgrid/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long: `Starts the expansion service: a JSON API that expands inline documents,
stores named specs in the configured backend and serves Prometheus
metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		storeBackend, _ := cmd.Flags().GetString("store")
		dbPath, _ := cmd.Flags().GetString("db")
		redisURL, _ := cmd.Flags().GetString("redis-url")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		debug, _ := cmd.Flags().GetBool("debug")

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)
		if jsonLogs {
			logger = logging.NewJSON(os.Stderr, level)
		}

		store, closeStore, err := cli.OpenStore(cli.StoreConfig{
			Backend:  storeBackend,
			Path:     dbPath,
			RedisURL: redisURL,
		})
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		reg := registry.New()
		components.Register(reg)
		expander := searchgrid.NewExpander(searchgrid.WithRegistry(reg), searchgrid.WithLogger(logger))

		svc := server.New(expander, store, logger, prometheus.NewRegistry())

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: svc.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Searchgrid Server on %s\n", srv.Addr)
			fmt.Printf("Spec store backend: %s\n", storeBackend)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Searchgrid Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("store", envOr("SEARCHGRID_STORE", "memory"), "Spec store backend: memory, sqlite or redis")
	serveCmd.Flags().String("db", envOr("SEARCHGRID_DB", "searchgrid.db"), "SQLite database file (store=sqlite)")
	serveCmd.Flags().String("redis-url", envOr("SEARCHGRID_REDIS_URL", "redis://localhost:6379/0"), "Redis connection URL (store=redis)")
	serveCmd.Flags().Bool("json-logs", false, "Emit JSON logs for log aggregators")
}

// envOr reads an environment variable with a fallback, so deployments can
// configure the server without repeating flags.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
