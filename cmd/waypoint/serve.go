package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/waypoint"
	httpAdapter "github.com/aretw0/waypoint/pkg/adapters/http"
	"github.com/aretw0/waypoint/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session inspector HTTP server",
	Long: `Serves stored sessions, live navigation events (SSE) and Prometheus metrics over HTTP.
With --definition, sessions can also be navigated remotely via POST /sessions/{id}/navigate.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		definition, _ := cmd.Flags().GetString("definition")
		logger := getLogger(cmd)

		sessions, closeFn := getSessions(cmd)
		defer closeFn()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		opts := []httpAdapter.Option{
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(logger),
		}
		if definition != "" {
			eng, err := waypoint.New(definition,
				waypoint.WithLogger(logger),
				waypoint.WithMetrics(observability.MustNewMetrics(reg)),
			)
			if err != nil {
				fmt.Printf("Error loading definition: %v\n", err)
				os.Exit(1)
			}
			opts = append(opts, httpAdapter.WithNavigation(eng, sessions))
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(sessions, opts...),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			fmt.Printf("Starting Waypoint Inspector on %s\n", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			fmt.Println("\nStart shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Waypoint Inspector stopped gracefully")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("definition", "", "Navigation definition enabling remote navigation")
}
