package indexer

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/database"
	"github.com/travigo/cifparser/pkg/elastic_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "indexer",
		Usage: "Indexes imported CIF data into Elasticsearch",
		Subcommands: []*cli.Command{
			{
				Name:  "locations",
				Usage: "do an index of the TIPLOC locations",
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(true); err != nil {
						return err
					}

					if err := IndexLocations(c.Context); err != nil {
						return err
					}

					log.Info().Msg("Index queue emptied")

					return nil
				},
			},
		},
	}
}
