package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/film-dashboard/internal/catalog"
	"github.com/iliyamo/film-dashboard/internal/config"
	"github.com/iliyamo/film-dashboard/internal/credentials"
	"github.com/iliyamo/film-dashboard/internal/database"
	"github.com/iliyamo/film-dashboard/internal/repository"
)

// openStore connects the configured backend.  The returned close function
// releases the client and is never nil.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (catalog.FilmStore, func(), error) {
	backend, err := repository.ParseBackend(cfg.StoreBackend)
	if err != nil {
		return nil, nil, err
	}

	switch backend {
	case repository.BackendMemory:
		log.Warn("using in-memory film store; data is lost on restart")
		return repository.NewMemoryFilmRepo(), func() {}, nil

	case repository.BackendMySQL:
		db := cfg.DB
		if db.Host == "" {
			sa, err := credentials.Load(cfg.CredentialsJSON, cfg.CredentialsFile)
			if err != nil {
				return nil, nil, err
			}
			db.Host, db.User, db.Pass, db.Name = sa.Host, sa.Username, sa.Password, sa.DatabaseName()
			if sa.Port != "" {
				db.Port = sa.Port
			}
		}
		conn, err := database.OpenMySQL(ctx, db)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewSQLFilmRepo(conn)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("ensure films schema: %w", err)
		}
		log.Info("film store ready", zap.String("backend", "mysql"), zap.String("host", db.Host))
		return repo, func() { _ = conn.Close() }, nil

	default:
		sa, err := credentials.Load(cfg.CredentialsJSON, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		client, err := database.OpenMongo(ctx, sa)
		if err != nil {
			return nil, nil, err
		}
		log.Info("film store ready",
			zap.String("backend", "mongo"),
			zap.String("database", sa.DatabaseName()),
			zap.String("credential_source", string(sa.Source)))
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}
		return repository.NewMongoFilmRepo(client.Database(sa.DatabaseName())), closeFn, nil
	}
}
