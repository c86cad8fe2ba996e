package repository

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	InvoicesCollection  = "invoices"
	ProductsCollection  = "products"
	CustomersCollection = "customers"
)

type Config struct {
	URI         string
	Name        string
	ConnTimeout time.Duration
	PingTimeout time.Duration
	MaxPoolSize uint64
}

// Open connects a Mongo client and returns it with the application
// database handle. The client is constructed once at startup and injected
// downward; nothing in the tree holds a package-level handle.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	logger.Info("connecting to document store", "db", cfg.Name)

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetAppName("invoice-manager")

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("failed to connect to document store", "error", err)
		return nil, nil, err
	}

	logger.Info("successfully connected to document store")
	return client, client.Database(cfg.Name), nil
}

// HealthCheck pings the primary within timeout.
func HealthCheck(ctx context.Context, client *mongo.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}
