package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/microosc/microosc/osc"
)

func listenCmd() *cobra.Command {
	var (
		addr        string
		bufferSize  int
		timeout     time.Duration
		metricsAddr string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Receive OSC messages and print them",
		Long: `Listen binds a UDP socket (multicast groups in 224.0.0.0/4 are joined
automatically) and prints every OSC message it receives. With --metrics-addr
it also serves Prometheus counters on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			server := &osc.Server{
				Addr:        addr,
				Dispatcher:  osc.DefaultDispatcher(logger),
				BufferSize:  bufferSize,
				ReadTimeout: timeout,
				Logger:      logger,
			}

			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				server.Metrics = osc.NewMetrics(reg)
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						logger.Error("metrics server failed", "error", err)
					}
				}()
				logger.Info("serving metrics", "addr", metricsAddr)
			}

			if err := server.Listen(); err != nil {
				return err
			}
			defer server.Close()
			logger.Info("listening for osc packets", "addr", server.LocalAddr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", envOr("OSC_ADDR", ":9000"), "host:port to receive on (env OSC_ADDR)")
	cmd.Flags().IntVarP(&bufferSize, "buffer-size", "b", osc.DefaultBufferSize, "receive buffer size, bounds the max packet size")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", osc.DefaultReadTimeout, "per-poll receive timeout")
	cmd.Flags().StringVarP(&metricsAddr, "metrics-addr", "m", "", "serve Prometheus metrics on this host:port")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log dropped packets")

	return cmd
}
