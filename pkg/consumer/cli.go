package consumer

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/travigo/cifparser/pkg/database"
	"github.com/travigo/cifparser/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "consumer",
		Usage: "Stores records published by the queue output",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the records queue consumer",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "queue",
						Value: "cif-records-queue",
						Usage: "queue to consume",
					},
					&cli.IntFlag{
						Name:  "consumers",
						Value: 5,
						Usage: "number of batch consumers",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Value: 200,
						Usage: "records written to MongoDB per batch",
					},
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: ":3333",
						Usage: "listen target for the queue stats server, empty to disable",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}

					redisConsumer := RedisConsumer{
						QueueName:       c.String("queue"),
						NumberConsumers: c.Int("consumers"),
						BatchSize:       c.Int("batch-size"),
						Timeout:         2 * time.Second,
						Consumer:        NewRecordsBatchConsumer(),
						StatsListen:     c.String("stats-listen"),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
		},
	}
}
