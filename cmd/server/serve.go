package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	router "github.com/dkeye/Hearth/internal/adapters/http"
	"github.com/dkeye/Hearth/internal/app/orch"
	"github.com/dkeye/Hearth/internal/store"
	"github.com/dkeye/Hearth/internal/store/fs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rooms, err := fs.New(cfg.RoomsDir, cfg.BackgroundFile)
	if err != nil {
		return fmt.Errorf("open rooms store: %w", err)
	}
	queue := store.NewQueue(rooms, store.DefaultQueueSize)

	ice, err := cfg.WebRTCICEServers()
	if err != nil {
		return err
	}
	o := orch.New(rooms, queue, orch.Settings{
		RoomsURL:             orch.DefaultRoomsURL,
		DefaultBackgroundURL: cfg.DefaultBackground,
		ICEServers:           ice,
		ReportJoinFailures:   cfg.JoinFailureEvent,
	})
	if err := o.LoadRooms(); err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Hearth server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := queue.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("pending room writes lost")
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}
