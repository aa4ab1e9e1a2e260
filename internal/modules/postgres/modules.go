package postgres

import (
	"context"
	"fmt"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

// NewJournal: пустой db_dsn — журнал выключен. Если DSN задан, недоступная
// база валит старт, а не тихо теряет записи.
func NewJournal(lc fx.Lifecycle, cfg *config.Config) (Journal, error) {
	if cfg.DB == "" {
		logger.Info("[DB] db_dsn not set, journal disabled")
		return Nop{}, nil
	}

	poolMaster, err := db.NewPool(context.Background(), db.PoolConfig{
		DSN:      cfg.DB,
		MaxConns: 2,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}

	tm := db.NewPgTxManager(poolMaster)
	j := NewPgJournal(tm)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := tm.Ping(ctx); err != nil {
				return fmt.Errorf("postgres ping: %w", err)
			}
			return j.Migrate(ctx)
		},
		OnStop: func(ctx context.Context) error {
			tm.Close()
			return nil
		},
	})

	return j, nil
}

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			NewJournal, // func(fx.Lifecycle, *config.Config) (Journal, error)
		),
	)
}
