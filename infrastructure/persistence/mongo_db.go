package persistence

import (
	"context"
	"fmt"
	"net/url"

	"channel-insights/infrastructure/configuration"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NewMongoDb connects to MongoDB and pings the primary
func NewMongoDb(ctx context.Context, cfg configuration.Db) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(mongoURI(cfg)))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func mongoURI(cfg configuration.Db) string {
	u := url.URL{Scheme: "mongodb", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}
