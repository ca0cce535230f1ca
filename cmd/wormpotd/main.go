package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"wormpot/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configFile := flag.String("config", "", "yaml config file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := server.LoadConfig(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("bad config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(level)

	rand.Seed(time.Now().Unix())

	s := server.NewServer(cfg)

	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt)

	err = s.Run(ctx)
	log.Info().Err(err).Msg("server return")
	if err != nil {
		os.Exit(1)
	}
}
