package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection   = "users"
	recipesCollection = "recipes"

	connectTimeout = 10 * time.Second
)

// Client держит подключение к MongoDB и выбранную базу
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// NewClient подключается к MongoDB и проверяет соединение
func NewClient(ctx context.Context, uri, database string, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		logger.Error("failed to ping MongoDB", "error", err)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("MongoDB connection established successfully",
		"database", database,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{client: cl, db: cl.Database(database), logger: logger}, nil
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes создает индексы: уникальный email и индексы для выборок рецептов
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	_, err = c.db.Collection(recipesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_public", Value: 1}, {Key: "recipe_type", Value: 1}},
			Options: options.Index().SetName("public_type"),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetName("owner"),
		},
	})
	if err != nil {
		return fmt.Errorf("create recipes indexes: %w", err)
	}

	c.logger.Info("MongoDB indexes ensured")
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		c.logger.Error("failed to disconnect from MongoDB", "error", err)
		return err
	}
	c.logger.Info("MongoDB connection closed")
	return nil
}
