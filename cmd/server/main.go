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

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/boomparty/server/internal/config"
	"github.com/boomparty/server/internal/events/natsmirror"
	"github.com/boomparty/server/internal/gateway"
	"github.com/boomparty/server/internal/match"
	"github.com/boomparty/server/internal/room"
	"github.com/boomparty/server/internal/words"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := config.FromEnv()
	setupLogging(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.Config) error {
	lexicon, err := words.LoadLexicon(cfg.WordListPath)
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}

	fragments := match.DefaultFragments
	if cfg.FragmentsPath != "" {
		fragments, err = config.LoadFragments(cfg.FragmentsPath)
		if err != nil {
			return fmt.Errorf("load fragments: %w", err)
		}
		log.Info().Int("fragments", len(fragments)).Str("path", cfg.FragmentsPath).Msg("fragment deck loaded")
	}

	hub := gateway.NewHub(gateway.DefaultConfig())
	rm := room.New(room.Config{
		Sender:    hub,
		Lexicon:   lexicon,
		Fragments: fragments,
	})
	hub.SetRoom(rm)

	if cfg.NATSEnabled {
		mirror, err := natsmirror.New(natsmirrorConfig(cfg))
		if err != nil {
			return fmt.Errorf("connect event mirror: %w", err)
		}
		defer mirror.Close()
		hub.SetMirror(mirror)
		log.Info().Str("url", cfg.NATSURL).Msg("event mirror enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)

	srv := setupServer(cfg, hub)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func setupServer(cfg config.Config, hub *gateway.Hub) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		conns, identified := hub.Stats()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","connections":%d,"users":%d}`, conns, identified)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodHead, http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func natsmirrorConfig(cfg config.Config) natsmirror.Config {
	mc := natsmirror.DefaultConfig()
	mc.URL = cfg.NATSURL
	return mc
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
