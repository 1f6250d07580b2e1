package db

import (
	"context"
	"fmt"
	"time"

	"mxshs/oddscrawler/src/config"
	"mxshs/oddscrawler/src/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	client  *mongo.Client
	matches *mongo.Collection
}

func NewMongoDB(ctx context.Context, cfg config.Mongo) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("can't ping MongoDB: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "matches"
	}

	d := &MongoDB{
		client:  client,
		matches: client.Database(cfg.Database).Collection(collection),
	}

	_, err = d.matches.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "link", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("can't create link index: %w", err)
	}

	return d, nil
}

// Save upserts rec by link, merging its fields into the stored document.
func (d *MongoDB) Save(ctx context.Context, rec domain.Record) error {
	_, err := d.matches.UpdateOne(
		ctx,
		bson.M{"link": rec.Key()},
		bson.M{"$set": rec},
		options.Update().SetUpsert(true),
	)
	return err
}

func (d *MongoDB) Close() error {
	return d.client.Disconnect(context.Background())
}
