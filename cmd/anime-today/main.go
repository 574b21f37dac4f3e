package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog"

	"github.com/kishikawakatsumi/anime-today/internal/cache"
	"github.com/kishikawakatsumi/anime-today/internal/config"
	"github.com/kishikawakatsumi/anime-today/internal/schedule"
	"github.com/kishikawakatsumi/anime-today/internal/server"
	"github.com/kishikawakatsumi/anime-today/internal/syobocal"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	// HTTP client with a caching transport for upstream calls.
	transport := httpcache.NewMemoryCacheTransport()
	httpClient := &http.Client{Transport: transport, Timeout: cfg.UpstreamTimeout}

	client := syobocal.New(
		syobocal.WithBaseURL(cfg.UpstreamBaseURL),
		syobocal.WithHTTPClient(httpClient),
	)

	svc := schedule.NewService(schedule.ServiceOptions{
		Upstream:   client,
		Cache:      cache.New[string, []byte](),
		ChannelTTL: cfg.ChannelTTL,
		ProgramTTL: cfg.ProgramTTL,
	})

	srv := server.New(svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", cfg.Addr()).Msg("starting anime-today")
	if err := srv.ListenAndServe(ctx, cfg.Addr()); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
