package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 5 * time.Second

// Connect opens and verifies a MongoDB connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongodb: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		if derr := client.Disconnect(ctx); derr != nil {
			return nil, fmt.Errorf("error disconnecting after ping failure: %w", derr)
		}

		return nil, fmt.Errorf("error pinging mongodb: %w", err)
	}

	return client, nil
}
