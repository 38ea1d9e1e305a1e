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

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/mcdev12/countdown/go/clients/timer_client"
	"github.com/mcdev12/countdown/go/internal/config"
	"github.com/mcdev12/countdown/go/internal/countdown"
	"github.com/mcdev12/countdown/go/internal/events"
	"github.com/mcdev12/countdown/go/internal/gateway"
	"github.com/mcdev12/countdown/go/internal/notify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	log.Info().
		Str("timer_service_url", cfg.TimerServiceURL).
		Dur("poll_interval", cfg.PollInterval).
		Str("port", cfg.GatewayPort).
		Bool("nats_enabled", cfg.NATSURL != "").
		Msg("starting countdown host")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	publishers := notify.Multi{cm, notify.LogPublisher{}}

	if cfg.NATSURL != "" {
		jsCfg := notify.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATSURL
		jsCfg.StreamName = cfg.NATSStream
		jsCfg.SubjectPrefix = cfg.SubjectPrefix

		js, err := notify.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create JetStream publisher")
		}
		defer js.Close()
		publishers = append(publishers, js)
	}

	ctrl := countdown.NewController(
		timer_client.NewTimerClient(cfg.TimerServiceURL, cfg.RequestTimeout),
		countdown.Options{
			Clock:          clockwork.NewRealClock(),
			PollInterval:   cfg.PollInterval,
			RequestTimeout: cfg.RequestTimeout,
			InitialSeconds: cfg.DefaultSeconds,
			DurationPolicy: cfg.Policy(),
			Publisher:      publishers,
		},
	)
	defer ctrl.Close()

	gatewayService := gateway.NewService(gateway.Config{
		ConnectionConfig: gateway.DefaultConnectionConfig(),
		AllowedOrigins:   cfg.AllowedOrigins,
	}, ctrl, cm)
	go gatewayService.Start(ctx)
	publishReady(ctx, publishers, ctrl.State())

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.GatewayPort),
		Handler:     gatewayService.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	ctrl.Close()
	cancel()

	log.Info().Msg("countdown host shutdown complete")
}

// publishReady announces the idle countdown so downstream consumers start
// from a known state.
func publishReady(ctx context.Context, p events.Publisher, st countdown.State) {
	ev, err := events.NewEvent(events.EventTypeTimerReset, countdown.PayloadFor(st), st.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to build ready event")
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Msg("failed to publish ready event")
	}
}
