package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/client/datastore"
	"github.com/grupo8/reparafacil/internal/core/ports"
	mongodb "github.com/grupo8/reparafacil/internal/infrastructure/db/mongo"
	redisdb "github.com/grupo8/reparafacil/internal/infrastructure/db/redis"
	"github.com/grupo8/reparafacil/internal/pkg/config"
)

// openPreferences connects the preference medium selected by STORE_BACKEND.
// The returned func releases it.
func openPreferences(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.PreferenceStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		return redisdb.NewPreferences(client, cfg.Store.Namespace), func() { _ = client.Close() }, nil
	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return mongodb.NewPreferences(db, cfg.Store.Namespace), closeFn, nil
	default:
		log.Warn().Msg("memory session store: the session ends with the process")
		return datastore.NewMemoryPreferences(), func() {}, nil
	}
}
