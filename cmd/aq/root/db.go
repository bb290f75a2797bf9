package root

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"avatarquest/internal/coach"
	"avatarquest/internal/config"
	"avatarquest/internal/engine"
	"avatarquest/internal/logging"
	"avatarquest/internal/storage"
)

type env struct {
	cfg    config.Config
	logger *zap.Logger
	svc    *engine.Service
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, func(), error) {
	path := cfg.DBPath
	if dbPath != "" {
		path = dbPath
	}
	path, err := storage.ResolveDBPath(path)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// openEnv loads configuration, then wires logger, database, coach and
// service. The returned cleanup closes the database and flushes the logger.
func openEnv(ctx context.Context) (*env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	db, closeDB, err := openDB(ctx, cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}

	c, err := coach.New(cfg.Coach.CoachClientConfig(), logger)
	if err != nil {
		closeDB()
		_ = logger.Sync()
		return nil, nil, err
	}

	e := &env{
		cfg:    cfg,
		logger: logger,
		svc:    engine.NewService(db, c, logger),
	}
	cleanup := func() {
		closeDB()
		_ = logger.Sync()
	}
	return e, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	e, cleanup, err := openEnv(ctx)
	if err != nil {
		return nil, nil, err
	}
	return e.svc, cleanup, nil
}
