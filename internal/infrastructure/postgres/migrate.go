package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jhoicas/erp-backend/migrations"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/pressly/goose/v3"
)

// Migrate aplica con goose los scripts embebidos en migrations.FS que falten en la base.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	log = logger.OrNop(log)

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	before, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	after, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	log.Info().Int64("from", before).Int64("to", after).Msg("migraciones aplicadas")
	return nil
}
