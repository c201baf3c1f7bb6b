package server

import (
	"context"
	"log/slog"

	"garden/internal/config"
	"garden/internal/database"
	"garden/internal/repositories"
)

// Store is the repository pair for the configured driver.
type Store struct {
	Users repositories.UserRepository
	Posts repositories.PostRepository
	close func(context.Context) error
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStore connects to the store named by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	if cfg.StoreDriver == database.DriverMongo {
		client, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		log.Info("connected to mongo", slog.String("database", cfg.MongoDatabase))
		return &Store{
			Users: repositories.NewMongoUserRepository(db),
			Posts: repositories.NewMongoPostRepository(db),
			close: client.Disconnect,
		}, nil
	}

	db, err := database.Open(cfg.StoreDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	log.Info("connected to database", slog.String("driver", cfg.StoreDriver))
	return &Store{
		Users: repositories.NewGORMUserRepository(db),
		Posts: repositories.NewGORMPostRepository(db),
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}
