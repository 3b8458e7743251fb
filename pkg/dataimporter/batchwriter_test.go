package dataimporter_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/dataimporter"
	"github.com/bussin/bussin/pkg/dataimporter/formats/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type recordingBulkWriter struct {
	batches [][]mongo.WriteModel
}

func (w *recordingBulkWriter) BulkWrite(_ context.Context, models []mongo.WriteModel, _ ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	batch := make([]mongo.WriteModel, len(models))
	copy(batch, models)
	w.batches = append(w.batches, batch)

	return &mongo.BulkWriteResult{UpsertedCount: int64(len(models))}, nil
}

func TestStopWriter(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	var stops []*ctdf.Stop
	for i := 0; i < 5; i++ {
		haltenummer := fmt.Sprintf("30101%d", i)
		stops = append(stops, &ctdf.Stop{
			PrimaryIdentifier: ctdf.StopIdentifier(haltenummer),
			Haltenummer:       haltenummer,
			CreationDateTime:  created,
			PrimaryName:       "Leuven Station",
			Location:          ctdf.NewPointLocation(4.7159, 50.8818),
			Active:            true,
		})
	}

	bulkWriter := &recordingBulkWriter{}
	writer := dataimporter.StopWriter{Collection: bulkWriter, BatchSize: 2}

	upserted, err := writer.Write(context.Background(), stops)
	require.NoError(t, err)
	assert.Equal(t, int64(5), upserted)

	require.Len(t, bulkWriter.batches, 3)
	assert.Len(t, bulkWriter.batches[0], 2)
	assert.Len(t, bulkWriter.batches[2], 1)

	model, ok := bulkWriter.batches[0][0].(*mongo.UpdateOneModel)
	require.True(t, ok)
	assert.Equal(t, bson.M{"primaryidentifier": "BE:HALTE:301010"}, model.Filter)
	assert.True(t, *model.Upsert)

	update, ok := model.Update.(bson.M)
	require.True(t, ok)

	fields, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "301010", fields["haltenummer"])
	assert.NotContains(t, fields, "creationdatetime", "Creation time is only set on insert")
	assert.Equal(t, bson.M{"creationdatetime": created}, update["$setOnInsert"])
}

func TestStopWriterNothingToWrite(t *testing.T) {
	t.Parallel()

	bulkWriter := &recordingBulkWriter{}
	writer := dataimporter.StopWriter{Collection: bulkWriter}

	upserted, err := writer.Write(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, upserted)
	assert.Empty(t, bulkWriter.batches)
}

func TestImportStops(t *testing.T) {
	t.Parallel()

	stopsTxt := "stop_id,stop_code,stop_name,stop_lat,stop_lon\n" +
		"1012,301012,Leuven Station perron 12,50.8818,4.7159\n" +
		"1013,301013,Leuven Station perron 13,50.8820,4.7161\n"

	bulkWriter := &recordingBulkWriter{}
	writer := &dataimporter.StopWriter{Collection: bulkWriter}
	datasource := &ctdf.DataSource{OriginalFormat: "GTFS", DatasetID: "delijn-gtfs"}

	upserted, err := dataimporter.ImportStops(context.Background(), strings.NewReader(stopsTxt), &gtfs.Schedule{}, datasource, writer)
	require.NoError(t, err)
	assert.Equal(t, int64(2), upserted)
	require.Len(t, bulkWriter.batches, 1)
	assert.Len(t, bulkWriter.batches[0], 2)
}

func TestImportStopsMalformed(t *testing.T) {
	t.Parallel()

	writer := &dataimporter.StopWriter{Collection: &recordingBulkWriter{}}
	datasource := &ctdf.DataSource{OriginalFormat: "GTFS", DatasetID: "delijn-gtfs"}

	_, err := dataimporter.ImportStops(context.Background(), strings.NewReader("stop_id,stop_lat\n1,north\n"), &gtfs.Schedule{}, datasource, writer)
	require.Error(t, err)
}
