package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveOrder  int
	serveCyclic bool
	serveCorpus string
	servePrune  int
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve generated text over HTTP",
	Long: `Serve builds a transition table from the source text once, then answers
HTTP requests from it until interrupted.

Endpoints: GET /generate produces text, GET /table reports the table as
JSON, GET /version reports build information and GET /metrics exposes
Prometheus metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().IntVarP(&serveOrder, "order", "n", 0, "order of the Markov chain (default from config)")
	serveCmd.Flags().BoolVarP(&serveCyclic, "cyclic", "c", false, "read the source as a cyclic sequence")
	serveCmd.Flags().StringVar(&serveCorpus, "corpus", "", "serve from a stored corpus instead of a file")
	serveCmd.Flags().IntVar(&servePrune, "prune", 0, "drop transitions observed this many times or fewer before freezing (0 disables)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	order, err := positiveFlag(cmd, "order", serveOrder, cfg.DefaultOrder)
	if err != nil {
		return err
	}
	addr := cfg.ServeAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	source, err := readSource(cmd, args, serveCorpus)
	if err != nil {
		return err
	}
	table, err := buildTable(source, order, serveCyclic, servePrune)
	if err != nil {
		return err
	}

	srv := newServer(table, cfg, logger)
	httpServer := &http.Server{Addr: addr, Handler: srv.mux}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("Starting mimus server", "address", httpServer.Addr, "contexts", table.Len())
		serverErrors <- httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

	case sig := <-shutdown:
		logger.Info("Stopping server...", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed, closing hard", "error", err)
			return httpServer.Close()
		}
		logger.Info("Server stopped.")
	}
	return nil
}
