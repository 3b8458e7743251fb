package api

import (
	"github.com/bussin/bussin/pkg/api/routes"
	"github.com/bussin/bussin/pkg/config"
	"github.com/bussin/bussin/pkg/dataaggregator/global"
	"github.com/bussin/bussin/pkg/database"
	"github.com/bussin/bussin/pkg/elastic_client"
	"github.com/bussin/bussin/pkg/prefetch"
	"github.com/bussin/bussin/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if err := database.Connect(); err != nil {
						log.Warn().Err(err).Msg("MongoDB unavailable, stop lookups will fail")
					}
					if err := redis_client.Connect(); err != nil {
						log.Warn().Err(err).Msg("Redis unavailable, responses will not be cached")
					} else {
						routes.Tracker = prefetch.NewTracker(redis_client.Client)
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					if err := global.Setup(appConfig); err != nil {
						return err
					}

					location, err := appConfig.Location()
					if err != nil {
						return err
					}
					routes.Location = location
					routes.Recorder = global.MatchRecorder

					return SetupServer(c.String("listen"))
				},
			},
		},
	}
}
