package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sa-fashion-be/internal/config"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMongo    Driver = "mongodb"
)

var (
	// ErrUnavailable is returned by repositories built without a live connection.
	ErrUnavailable = errors.New("storage unavailable")

	ErrNotConfigured     = errors.New("DATABASE_URL not set")
	ErrUnsupportedDriver = errors.New("unsupported database url scheme")
)

// Conn is a live connection to one of the supported document stores.
// A nil *Conn means storage is unavailable.
type Conn struct {
	Driver Driver
	SQL    *sql.DB
	Mongo  *mongo.Database

	client *mongo.Client
}

func NewPostgresConn(db *sql.DB) *Conn {
	return &Conn{Driver: DriverPostgres, SQL: db}
}

func NewMongoConn(database *mongo.Database) *Conn {
	return &Conn{Driver: DriverMongo, Mongo: database, client: database.Client()}
}

// DriverFromURL picks the backend from the URL scheme.
func DriverFromURL(raw string) (Driver, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, u.Scheme)
	}
}

// Connect opens and pings the store named by cfg.DatabaseURL within
// cfg.DBConnectTimeout.
func Connect(ctx context.Context, cfg *config.Config) (*Conn, error) {
	if cfg.DatabaseURL == "" {
		return nil, ErrNotConfigured
	}

	driver, err := DriverFromURL(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()

	switch driver {
	case DriverMongo:
		return connectMongo(ctx, cfg.DatabaseURL, cfg.DatabaseName, cfg.DBConnectTimeout)
	default:
		return connectPostgres(ctx, "postgres", cfg.DatabaseURL)
	}
}

func connectPostgres(ctx context.Context, driverName, dsn string) (*Conn, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return NewPostgresConn(db), nil
}

func connectMongo(ctx context.Context, uri, name string, timeout time.Duration) (*Conn, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return NewMongoConn(client.Database(name)), nil
}

// Available reports whether c holds a usable backend.
func (c *Conn) Available() bool {
	return c != nil && (c.SQL != nil || c.Mongo != nil)
}

// Collections lists collection names (tables in the current schema for Postgres).
func (c *Conn) Collections(ctx context.Context) ([]string, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}

	if c.Mongo != nil {
		names, err := c.Mongo.ListCollectionNames(ctx, bson.D{})
		if err != nil {
			return nil, err
		}
		return names, nil
	}

	rows, err := c.SQL.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		ORDER BY table_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (c *Conn) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.client != nil {
		return c.client.Disconnect(ctx)
	}
	if c.SQL != nil {
		return c.SQL.Close()
	}
	return nil
}
