package dataimporter

import (
	"context"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultBatchSize = 500

// BulkWriter is the part of a *mongo.Collection the importer writes with.
type BulkWriter interface {
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
}

// StopWriter upserts stops by primary identifier in unordered bulk writes.
type StopWriter struct {
	Collection BulkWriter
	BatchSize  int
}

func (w *StopWriter) Write(ctx context.Context, stops []*ctdf.Stop) (int64, error) {
	batchSize := w.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	var upserted int64
	batchItems := make([]mongo.WriteModel, 0, batchSize)

	flush := func() error {
		if len(batchItems) == 0 {
			return nil
		}

		startTime := time.Now()
		result, err := w.Collection.BulkWrite(ctx, batchItems, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return err
		}
		upserted += result.UpsertedCount + result.ModifiedCount

		log.Info().Int("length", len(batchItems)).Str("latency", time.Since(startTime).String()).Msg("Bulk write")
		batchItems = batchItems[:0]

		return nil
	}

	for _, stop := range stops {
		fields, err := stopFields(stop)
		if err != nil {
			return upserted, err
		}

		// Keep the creation time of stops that were imported before
		delete(fields, "creationdatetime")

		updateModel := mongo.NewUpdateOneModel()
		updateModel.SetFilter(bson.M{"primaryidentifier": stop.PrimaryIdentifier})
		updateModel.SetUpdate(bson.M{
			"$set":         fields,
			"$setOnInsert": bson.M{"creationdatetime": stop.CreationDateTime},
		})
		updateModel.SetUpsert(true)
		batchItems = append(batchItems, updateModel)

		if len(batchItems) >= batchSize {
			if err := flush(); err != nil {
				return upserted, err
			}
		}
	}

	if err := flush(); err != nil {
		return upserted, err
	}

	return upserted, nil
}

func stopFields(stop *ctdf.Stop) (bson.M, error) {
	document, err := bson.Marshal(stop)
	if err != nil {
		return nil, err
	}

	var fields bson.M
	if err := bson.Unmarshal(document, &fields); err != nil {
		return nil, err
	}

	return fields, nil
}
