package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"election-ingest/internal/config"
	"election-ingest/internal/store"
	serverhttp "election-ingest/server/http"
	"election-ingest/server/http/handlers"
)

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "election-ingest",
		Short:         "Normalize municipal election result workbooks and contribution exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newIngestCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	var withStore bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload API until SIGINT/SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.SetupLogger(cfg)
			return serve(cmd.Context(), cfg, logger, withStore)
		},
	}
	cmd.Flags().BoolVar(&withStore, "winners", true, "Open the database and expose GET /winners")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger, withStore bool) error {
	var db handlers.WinnerLister
	if withStore {
		st, err := store.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()
		db = st
	}

	srv := &http.Server{Addr: cfg.Addr(), Handler: serverhttp.NewRouter(cfg, logger, db)}
	logger.Info().Str("addr", cfg.Addr()).Bool("winners", withStore).Msg("server starting")

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
	case <-quit:
	}

	logger.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("bye")
	return nil
}
