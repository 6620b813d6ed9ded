package database

import (
	"context"
	"fmt"
	"time"

	"ecobloom/internal/config"
	"ecobloom/internal/models"
	"ecobloom/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connection is an open backend with its repositories.
type Connection struct {
	Store   *repositories.Store
	migrate func(context.Context) error
	close   func(context.Context) error
}

// Migrate creates tables or indexes.
func (c *Connection) Migrate(ctx context.Context) error { return c.migrate(ctx) }

// Close releases the underlying client.
func (c *Connection) Close(ctx context.Context) error { return c.close(ctx) }

// Open connects to the backend selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config) (*Connection, error) {
	if cfg.DBDriver == "mongo" {
		return openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	db, err := OpenGORM(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return NewGORMConnection(db), nil
}

// OpenGORM opens a postgres or sqlite database.
func OpenGORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// NewGORMConnection wraps an open GORM handle.
func NewGORMConnection(db *gorm.DB) *Connection {
	return &Connection{
		Store: repositories.NewGORMStore(db),
		migrate: func(ctx context.Context) error {
			return MigrateGORM(db.WithContext(ctx))
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// MigrateGORM creates or updates every table.
func MigrateGORM(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Category{}, &models.Plant{}, &models.User{}, &models.Order{}, &models.Contact{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func openMongo(ctx context.Context, uri, name string) (*Connection, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	db := client.Database(name)
	return &Connection{
		Store: repositories.NewMongoStore(db),
		migrate: func(ctx context.Context) error {
			return EnsureMongoIndexes(ctx, db)
		},
		close: client.Disconnect,
	}, nil
}

// EnsureMongoIndexes creates the unique and sort indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		repositories.UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: unique},
		},
		repositories.PlantsCollection: {
			{Keys: bson.D{{Key: "categories", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		repositories.OrdersCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		repositories.ContactsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	return nil
}
