package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/bussin/bussin/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const queueConnectionTag = "bussin"

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["BUSSIN_REDIS_ADDRESS"] != "" {
		address = env["BUSSIN_REDIS_ADDRESS"]
	}

	if env["BUSSIN_REDIS_PASSWORD"] != "" {
		password = env["BUSSIN_REDIS_PASSWORD"]
	}

	if env["BUSSIN_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["BUSSIN_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	return Use(client)
}

// Use makes client the shared Redis client and opens the queue connection on
// top of it.
func Use(client *redis.Client) error {
	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	errChan := make(chan error, 10)
	go logQueueErrors(errChan)

	queueConnection, err := rmq.OpenConnectionWithRedisClient(queueConnectionTag, client, errChan)
	if err != nil {
		return err
	}

	Client = client
	QueueConnection = queueConnection

	log.Info().Str("address", client.Options().Addr).Msg("Redis client connected")

	return nil
}

func logQueueErrors(errChan <-chan error) {
	for err := range errChan {
		log.Error().Err(err).Msg("Redis queue error")
	}
}
