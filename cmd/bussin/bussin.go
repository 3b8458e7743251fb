package main

import (
	"os"
	"time"

	"github.com/bussin/bussin/pkg/api"
	"github.com/bussin/bussin/pkg/arrivals"
	"github.com/bussin/bussin/pkg/dataimporter"
	"github.com/bussin/bussin/pkg/prefetch"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("BUSSIN_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("BUSSIN_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "bussin",
		Description: "Single binary for bussin - runs all the services",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the yaml config file",
				Value:   "bussin.yaml",
				EnvVars: []string{"BUSSIN_CONFIG"},
			},
		},

		Commands: []*cli.Command{
			api.RegisterCLI(),
			prefetch.RegisterCLI(),
			dataimporter.RegisterCLI(),
			arrivals.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
