package arrivals

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bussin/bussin/pkg/config"
	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/dataaggregator"
	"github.com/bussin/bussin/pkg/dataaggregator/global"
	"github.com/bussin/bussin/pkg/delijn"
	"github.com/bussin/bussin/pkg/redis_client"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "arrivals",
		Usage: "Inspect the enriched arrivals of a stop",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the arrivals of a stop",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "stop",
						Usage:    "haltenummer of the stop",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "number of arrivals to show",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "service date as YYYY-MM-DD, today when empty",
					},
					&cli.BoolFlag{
						Name:  "full",
						Usage: "pretty print every field instead of a table",
					},
				},
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						log.Debug().Err(err).Msg("Running without cache")
					}

					if err := global.Setup(appConfig); err != nil {
						return err
					}

					query := ctdf.QueryStopArrivals{
						Haltenummer: c.String("stop"),
						Count:       c.Int("count"),
					}

					if dateString := c.String("date"); dateString != "" {
						location, err := appConfig.Location()
						if err != nil {
							return err
						}

						query.Date, err = time.ParseInLocation(delijn.DateFormat, dateString, location)
						if err != nil {
							return fmt.Errorf("date: %w", err)
						}
					}

					stopArrivals, err := dataaggregator.Lookup[*ctdf.StopArrivals](query)
					if err != nil {
						return err
					}

					if c.Bool("full") {
						pretty.Println(stopArrivals)
						return nil
					}

					return PrintTable(os.Stdout, stopArrivals)
				},
			},
		},
	}
}

// PrintTable writes one line per arrival.
func PrintTable(out io.Writer, stopArrivals *ctdf.StopArrivals) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(writer, "Stop %s\n", stopArrivals.Haltenummer)
	fmt.Fprintln(writer, "LINE\tDESTINATION\tSCHEDULED\tDELAY\tCOUNTDOWN\tRULE")

	for _, arrival := range stopArrivals.Arrivals {
		rule := arrival.MatchRule
		if rule == "" {
			rule = "-"
		}

		line := "-"
		if arrival.Badge != nil {
			line = arrival.Badge.Text
		}

		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			line,
			arrival.Bestemming,
			arrival.ScheduledTimeFormatted,
			arrival.DelayText,
			arrival.Countdown,
			rule,
		)
	}

	return writer.Flush()
}
