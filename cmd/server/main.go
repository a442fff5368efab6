package main

import (
	"context"
	"flag"

	"github.com/emergia-gye/emergia/pkg/catalog"
	"github.com/emergia-gye/emergia/pkg/http"
	"github.com/emergia-gye/emergia/pkg/logger"
	"github.com/emergia-gye/emergia/pkg/overpass"
	"github.com/emergia-gye/emergia/pkg/system"
	"github.com/emergia-gye/emergia/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useReducedArea = flag.Bool("reduced_area", false, "load only the reduced (Ceibos) coverage area")
	useRateLimit   = flag.Bool("rate_limit", false, "enable API rate limiting")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Warn("config file not found, using defaults", zap.Error(err))
	}
	viper.SetDefault("OVERPASS_ENDPOINT", overpass.DefaultEndpoint)
	viper.SetDefault("OVERPASS_TIMEOUT", "180s")

	client := overpass.NewClient(
		viper.GetString("OVERPASS_ENDPOINT"),
		viper.GetDuration("OVERPASS_TIMEOUT"),
		logger,
	)
	emergencySystem := system.New(client, catalog.Default(), logger)

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	if err := emergencySystem.LoadNetwork(ctx, *useReducedArea); err != nil {
		panic(err)
	}
	if err := emergencySystem.Prepare(); err != nil {
		panic(err)
	}

	api := http.NewServer(logger)
	_, err = api.Use(ctx, logger, *useRateLimit, emergencySystem)
	if err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()

	logger.Info("Emergia Routing Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
