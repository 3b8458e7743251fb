package insertrecords

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertDefinition is a hand written record upserted into Collection, for
// stops the imported datasets get wrong or miss entirely.
type InsertDefinition struct {
	Collection string                 `yaml:"Collection"`
	Match      map[string]string      `yaml:"Match"`
	Data       map[string]interface{} `yaml:"Data"`
}

var ErrEmptyMatch = errors.New("insert definition has no match")

// Updater is the part of a *mongo.Collection definitions are upserted with.
type Updater interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

func (i *InsertDefinition) Filter() (bson.M, error) {
	if len(i.Match) == 0 {
		return nil, ErrEmptyMatch
	}

	filter := bson.M{}
	for key, value := range i.Match {
		filter[key] = value
	}

	return filter, nil
}

func (i *InsertDefinition) Upsert(ctx context.Context, collection Updater) error {
	filter, err := i.Filter()
	if err != nil {
		return err
	}

	opts := options.Update().SetUpsert(true)
	_, err = collection.UpdateOne(ctx, filter, bson.M{"$set": i.Data}, opts)

	return err
}
