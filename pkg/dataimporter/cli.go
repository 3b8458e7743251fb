package dataimporter

import (
	"context"
	"os"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/database"
	"github.com/bussin/bussin/pkg/dataimporter/formats/gtfs"
	"github.com/bussin/bussin/pkg/dataimporter/insertrecords"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Import third party datasets into the stop catalogue",
		Subcommands: []*cli.Command{
			{
				Name:  "stops",
				Usage: "Import the stops of a GTFS feed, either the zip or a bare stops.txt",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the GTFS zip or stops.txt",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "dataset-id",
						Usage: "ID recorded as the source of the stops",
						Value: "delijn-gtfs",
					},
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Name of the dataset provider",
						Value: "De Lijn",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					file, err := os.Open(c.String("file"))
					if err != nil {
						return err
					}
					defer file.Close()

					datasource := &ctdf.DataSource{
						OriginalFormat: "GTFS",
						Provider:       c.String("provider"),
						DatasetID:      c.String("dataset-id"),
						Timestamp:      time.Now().Format(time.RFC3339),
					}

					writer := &StopWriter{Collection: database.GetCollection(database.StopsCollection)}

					_, err = ImportStops(c.Context, file, &gtfs.Schedule{}, datasource, writer)
					return err
				},
			},
			{
				Name:  "insert-records",
				Usage: "Upsert the hand written records",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Directory of insert-record yaml files",
						Value: "data/insert-records/",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					inserted, err := insertrecords.Insert(context.Background(), c.String("path"))
					if err != nil {
						return err
					}

					log.Info().Int("records", inserted).Msg("Inserted records")

					return nil
				},
			},
		},
	}
}
