package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/api"
	"github.com/travigo/cifparser/pkg/consumer"
	"github.com/travigo/cifparser/pkg/database"
	"github.com/travigo/cifparser/pkg/dataimporter"
	"github.com/travigo/cifparser/pkg/indexer"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRAVIGO_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRAVIGO_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "cifparser",
		Description: "Decodes CIF railway timetable files and imports them into storage, search and queues",

		Commands: []*cli.Command{
			dataimporter.RegisterCLI(),
			api.RegisterCLI(),
			consumer.RegisterCLI(),
			indexer.RegisterCLI(),
		},
		After: func(c *cli.Context) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			return database.Disconnect(ctx)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
