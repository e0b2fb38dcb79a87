package dataimporter

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/database"
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
	"github.com/travigo/cifparser/pkg/dataimporter/filter"
	"github.com/travigo/cifparser/pkg/dataimporter/manager"
	"github.com/travigo/cifparser/pkg/dataimporter/sinks"
	"github.com/travigo/cifparser/pkg/elastic_client"
	"github.com/travigo/cifparser/pkg/redis_client"
	"github.com/travigo/cifparser/pkg/util"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Decode CIF timetable files and import them into the configured outputs",
		Subcommands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "Decode CIF files, bundles or URLs",
				ArgsUsage: "<path or url>...",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "parallel",
						Usage: "Decode up to this many inputs at once",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Only output records matching this expression, eg. 'Identity == \"BS\"'",
					},
					&cli.StringSliceFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output to write records to (log, pretty, json, mongo, queue, elastic, csv)",
					},
					&cli.StringSliceFlag{
						Name:  "groups",
						Usage: "Field groups included in json output",
						Value: cli.NewStringSlice("basic", "detailed"),
					},
					&cli.StringFlag{
						Name:  "bundle",
						Usage: "Bundle format of every input (none, zip, gz), detected from the extension when unset",
					},
					&cli.StringFlag{
						Name:  "csv-path",
						Usage: "File the csv output is written to instead of stdout",
					},
					&cli.StringFlag{
						Name:  "queue",
						Usage: "Queue name for the queue output",
					},
					&cli.StringFlag{
						Name:  "index",
						Usage: "Index name for the elastic output",
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("at least one path or url is required", 1)
					}

					outputs := c.StringSlice("output")
					if err := connectOutputs(outputs, false); err != nil {
						return err
					}

					recordFilter, err := filter.Compile(c.String("filter"))
					if err != nil {
						return err
					}

					recordSinks, err := sinks.NewAll(outputs, sinks.Options{
						Groups:    c.StringSlice("groups"),
						CSVPath:   c.String("csv-path"),
						QueueName: c.String("queue"),
						IndexName: c.String("index"),
					})
					if err != nil {
						return err
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					_, err = manager.Run(ctx, manager.Job{
						Sources:  c.Args().Slice(),
						Bundle:   datasets.BundleFormat(c.String("bundle")),
						Parallel: c.Int("parallel"),
						Filter:   recordFilter,
						Sinks:    recordSinks,
					})

					return err
				},
			},
			{
				Name:    "dataset",
				Aliases: []string{"import"},
				Usage:   "Import a registered dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "ID of the dataset",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "repeat-every",
						Usage:    "Repeat this dataset import every X duration, eg. 24h",
						Required: false,
					},
				},
				Action: func(c *cli.Context) error {
					dataset, err := manager.GetDataset(c.String("id"))
					if err != nil {
						return err
					}

					if err := connectOutputs(dataset.Outputs, dataset.Format == datasets.DataSetFormatCIF); err != nil {
						return err
					}

					repeatEvery := c.String("repeat-every")
					repeat := repeatEvery != ""
					var repeatDuration time.Duration
					if repeat {
						repeatDuration, err = time.ParseDuration(repeatEvery)
						if err != nil {
							return err
						}
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					for {
						startTime := time.Now()

						if err := manager.ImportDataset(ctx, dataset); err != nil {
							return err
						}
						if !repeat {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Operation took %s", executionDuration.String())

						if !wait(ctx, repeatDuration-executionDuration) {
							break
						}
					}

					return nil
				},
			},
			{
				Name:  "all",
				Usage: "Import every registered dataset on its refresh interval",
				Action: func(c *cli.Context) error {
					allDatasets, err := manager.GetRegisteredDataSets()
					if err != nil {
						return err
					}

					for _, dataset := range allDatasets {
						if err := connectOutputs(dataset.Outputs, dataset.Format == datasets.DataSetFormatCIF); err != nil {
							return err
						}
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					for _, dataset := range allDatasets {
						go importRepeatedly(ctx, dataset)
					}

					<-ctx.Done()
					log.Info().Msg("Stopping dataset imports")

					return nil
				},
			},
		},
	}
}

const defaultRefreshInterval = 24 * time.Hour

func importRepeatedly(ctx context.Context, dataset datasets.DataSet) {
	repeatDuration := dataset.RefreshInterval
	if repeatDuration <= 0 {
		repeatDuration = defaultRefreshInterval
	}

	log.Info().Str("interval", repeatDuration.String()).Str("id", dataset.Identifier).Msg("Loaded dataset")

	for {
		startTime := time.Now()

		if err := manager.ImportDataset(ctx, dataset); err != nil {
			log.Error().Err(err).Str("id", dataset.Identifier).Msg("Failed to import dataset")
		}

		executionDuration := time.Since(startTime)
		log.Info().Str("id", dataset.Identifier).Msgf("Operation took %s", executionDuration.String())

		if !wait(ctx, repeatDuration-executionDuration) {
			return
		}
	}
}

// wait sleeps for duration, returning false if ctx ends first.
func wait(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// connectOutputs opens the connections the outputs write to, skipping any
// already open.
func connectOutputs(outputs []string, needsDatabase bool) error {
	if (needsDatabase || util.ContainsString(outputs, "mongo")) && database.MongoGlobalInstance == nil {
		if err := database.Connect(); err != nil {
			return err
		}
	}
	if util.ContainsString(outputs, "queue") && redis_client.QueueConnection == nil {
		if err := redis_client.Connect(); err != nil {
			return err
		}
	}
	if util.ContainsString(outputs, "elastic") && elastic_client.Client == nil {
		if err := elastic_client.Connect(true); err != nil {
			return err
		}
	}

	return nil
}
