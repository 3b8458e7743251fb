package prefetch

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bussin/bussin/pkg/config"
	"github.com/bussin/bussin/pkg/consumer"
	"github.com/bussin/bussin/pkg/dataaggregator/global"
	"github.com/bussin/bussin/pkg/elastic_client"
	"github.com/bussin/bussin/pkg/redis_client"
	"github.com/bussin/bussin/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "prefetch",
		Usage: "Keeps the arrivals of recently requested stops warm in the cache",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the prefetch scheduler and consumers",
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					if err := elastic_client.Connect(false); err != nil {
						log.Warn().Err(err).Msg("Match events will not be indexed")
					}

					if err := global.Setup(appConfig); err != nil {
						return err
					}

					location, err := appConfig.Location()
					if err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       QueueName,
						NumberConsumers: appConfig.Prefetch.Consumers,
						BatchSize:       appConfig.Prefetch.BatchSize,
						Timeout:         2 * time.Second,
						Consumer:        NewBatchConsumer(global.DeLijnSource, location),
						StatsAddress:    util.GetEnvironmentVariable("PREFETCH_STATS_ADDRESS", ":3333"),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					queue, err := redis_client.QueueConnection.OpenQueue(QueueName)
					if err != nil {
						return err
					}

					scheduler := Scheduler{
						Tracker:   NewTracker(redis_client.Client),
						Publisher: queue,
						Interval:  appConfig.PrefetchInterval(),
						Lookback:  appConfig.PrefetchLookback(),
					}

					ctx, cancel := context.WithCancel(context.Background())
					defer cancel()
					go scheduler.Run(ctx)

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					log.Info().Msg("Stopping prefetch")
					cancel()
					<-redis_client.QueueConnection.StopAllConsuming()
					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
		},
	}
}
