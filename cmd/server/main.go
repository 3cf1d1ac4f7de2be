package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Khrafts/uniswap-v1/internal/amm"
	"github.com/Khrafts/uniswap-v1/internal/config"
	"github.com/Khrafts/uniswap-v1/internal/genesis"
	"github.com/Khrafts/uniswap-v1/internal/infra/uniswap"
	"github.com/Khrafts/uniswap-v1/internal/logging"
	"github.com/Khrafts/uniswap-v1/internal/service"
	transport "github.com/Khrafts/uniswap-v1/internal/transport/http"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "cfg/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		bootLogger := logging.New("info", os.Stderr)
		bootLogger.Fatal().Err(err).Str("path", path).Msg("config.Load")
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := amm.NewMetrics(reg)

	var reader genesis.PairReader
	if cfg.Genesis.RPCURL != "" {
		client, err := uniswap.NewClient(cfg.Genesis.RPCURL, cfg.Genesis.CallTimeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("uniswap.NewClient")
		}
		reader = client
	}

	market, err := genesis.Build(ctx, cfg.Genesis, reader, logger, metrics)
	if err != nil {
		logger.Fatal().Err(err).Msg("genesis.Build")
	}
	logger.Info().Int("pools", market.Registry.Len()).Msg("genesis complete")

	svc := service.NewQuoteService(market.Registry, logger)
	srv := transport.NewServer(svc, cfg, transport.WithLogger(logger), transport.WithGatherer(reg))

	if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Fatal().Err(err).Msg("srv.ListenAndServe")
	}
}
