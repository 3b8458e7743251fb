package dataimporter

import (
	"context"
	"io"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/dataimporter/formats"
	"github.com/rs/zerolog/log"
)

// ImportStops parses reader as format and upserts the resulting stops.
func ImportStops(ctx context.Context, reader io.Reader, format formats.Format, datasource *ctdf.DataSource, writer *StopWriter) (int64, error) {
	startTime := time.Now()

	if err := format.ParseFile(reader); err != nil {
		return 0, err
	}

	stops := format.ToCTDF(datasource)
	log.Info().Int("length", len(stops)).Msg("Converted stops")

	upserted, err := writer.Write(ctx, stops)
	if err != nil {
		return upserted, err
	}

	log.Info().
		Int64("upserted", upserted).
		Str("dataset", datasource.DatasetID).
		Str("duration", time.Since(startTime).String()).
		Msg("Imported stops")

	return upserted, nil
}
