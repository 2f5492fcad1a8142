package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/interfaces"
	"github.com/mindhaven/mindhaven/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Repository holds storage backend configuration. At most one backend may
// be configured; none means in-memory storage.
type Repository struct {
	FirestoreProjectID  string
	FirestoreDatabaseID string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisSessionTTL time.Duration

	MongoURI      string
	MongoDatabase string
}

// Flags returns CLI flags for Repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Firestore",
			Sources:     cli.EnvVars("MINDHAVEN_FIRESTORE_PROJECT"),
			Destination: &r.FirestoreProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Firestore",
			Value:       "(default)",
			Sources:     cli.EnvVars("MINDHAVEN_FIRESTORE_DATABASE"),
			Destination: &r.FirestoreDatabaseID,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address (host:port)",
			Category:    "Redis",
			Sources:     cli.EnvVars("MINDHAVEN_REDIS_ADDR"),
			Destination: &r.RedisAddr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Category:    "Redis",
			Sources:     cli.EnvVars("MINDHAVEN_REDIS_PASSWORD"),
			Destination: &r.RedisPassword,
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Category:    "Redis",
			Sources:     cli.EnvVars("MINDHAVEN_REDIS_DB"),
			Destination: &r.RedisDB,
		},
		&cli.DurationFlag{
			Name:        "redis-session-ttl",
			Usage:       "Expiry of unfinished assessment sessions in Redis",
			Category:    "Redis",
			Value:       24 * time.Hour,
			Sources:     cli.EnvVars("MINDHAVEN_REDIS_SESSION_TTL"),
			Destination: &r.RedisSessionTTL,
		},
		&cli.StringFlag{
			Name:        "mongodb-uri",
			Usage:       "MongoDB connection URI",
			Category:    "MongoDB",
			Sources:     cli.EnvVars("MINDHAVEN_MONGODB_URI"),
			Destination: &r.MongoURI,
		},
		&cli.StringFlag{
			Name:        "mongodb-database",
			Usage:       "MongoDB database name",
			Category:    "MongoDB",
			Value:       "mindhaven",
			Sources:     cli.EnvVars("MINDHAVEN_MONGODB_DATABASE"),
			Destination: &r.MongoDatabase,
		},
	}
}

// Backend returns the name of the configured backend
func (r *Repository) Backend() string {
	switch {
	case r.FirestoreProjectID != "":
		return "firestore"
	case r.RedisAddr != "":
		return "redis"
	case r.MongoURI != "":
		return "mongodb"
	default:
		return "memory"
	}
}

// Validate validates the repository configuration
func (r *Repository) Validate() error {
	var configured []string
	if r.FirestoreProjectID != "" {
		configured = append(configured, "firestore")
	}
	if r.RedisAddr != "" {
		configured = append(configured, "redis")
	}
	if r.MongoURI != "" {
		configured = append(configured, "mongodb")
	}
	if len(configured) > 1 {
		return goerr.New("only one storage backend can be configured", goerr.V("backends", configured))
	}

	if r.RedisAddr != "" && r.RedisSessionTTL < 0 {
		return goerr.New("redis session TTL must not be negative", goerr.V("ttl", r.RedisSessionTTL))
	}
	if r.MongoURI != "" && r.MongoDatabase == "" {
		return goerr.New("mongodb database is required")
	}
	return nil
}

// Configure creates and returns the configured repository
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch r.Backend() {
	case "firestore":
		repo, err := repository.NewFirestore(ctx, r.FirestoreProjectID, r.FirestoreDatabaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init firestore",
				goerr.V("project", r.FirestoreProjectID),
				goerr.V("database", r.FirestoreDatabaseID),
			)
		}
		return repo, nil

	case "redis":
		repo, err := repository.NewRedis(ctx, r.RedisAddr, r.RedisPassword, r.RedisDB,
			repository.WithSessionTTL(r.RedisSessionTTL))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init redis", goerr.V("addr", r.RedisAddr))
		}
		return repo, nil

	case "mongodb":
		repo, err := repository.NewMongo(ctx, r.MongoURI, r.MongoDatabase)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init mongodb", goerr.V("database", r.MongoDatabase))
		}
		return repo, nil

	default:
		ctxlog.From(ctx).Warn("Using memory database. The data will be removed when shutting down")
		return repository.NewMemory(), nil
	}
}

// LogValue returns structured log value. Credentials are not logged.
func (r Repository) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("backend", r.Backend())}

	switch r.Backend() {
	case "firestore":
		attrs = append(attrs,
			slog.String("project", r.FirestoreProjectID),
			slog.String("database", r.FirestoreDatabaseID),
		)
	case "redis":
		attrs = append(attrs,
			slog.String("addr", r.RedisAddr),
			slog.Int("db", r.RedisDB),
			slog.Bool("hasPassword", r.RedisPassword != ""),
			slog.Duration("sessionTTL", r.RedisSessionTTL),
		)
	case "mongodb":
		attrs = append(attrs,
			slog.Bool("hasURI", r.MongoURI != ""),
			slog.String("database", r.MongoDatabase),
		)
	}

	return slog.GroupValue(attrs...)
}
