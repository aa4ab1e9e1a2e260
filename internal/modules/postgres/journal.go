package postgres

import (
	"context"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Journal — журнал сигналов и закрытых сделок, только запись.
// Состояние из него не восстанавливается.
type Journal interface {
	RecordSignal(ctx context.Context, symbol string, p models.Position) error
	RecordTrade(ctx context.Context, symbol string, t models.ClosedTrade) error
}

// Nop — журнал выключен (db_dsn пустой).
type Nop struct{}

func (Nop) RecordSignal(context.Context, string, models.Position) error  { return nil }
func (Nop) RecordTrade(context.Context, string, models.ClosedTrade) error { return nil }

const schema = `
CREATE TABLE IF NOT EXISTS signals (
	id          BIGSERIAL PRIMARY KEY,
	symbol      TEXT             NOT NULL,
	side        TEXT             NOT NULL,
	price       DOUBLE PRECISION NOT NULL,
	take_profit DOUBLE PRECISION NOT NULL,
	stop_loss   DOUBLE PRECISION NOT NULL,
	score       DOUBLE PRECISION NOT NULL,
	reasons     JSONB            NOT NULL,
	created_at  TIMESTAMPTZ      NOT NULL
);
CREATE TABLE IF NOT EXISTS trades (
	id         BIGSERIAL PRIMARY KEY,
	symbol     TEXT             NOT NULL,
	side       TEXT             NOT NULL,
	entry      DOUBLE PRECISION NOT NULL,
	exit       DOUBLE PRECISION NOT NULL,
	entry_time TIMESTAMPTZ      NOT NULL,
	exit_time  TIMESTAMPTZ      NOT NULL,
	gross_pct  DOUBLE PRECISION NOT NULL,
	net_pct    DOUBLE PRECISION NOT NULL,
	reason     TEXT             NOT NULL
);`

const insertSignal = `
INSERT INTO signals (symbol, side, price, take_profit, stop_loss, score, reasons, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)`

const insertTrade = `
INSERT INTO trades (symbol, side, entry, exit, entry_time, exit_time, gross_pct, net_pct, reason)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

type PgJournal struct {
	tx db.TxManager
}

func NewPgJournal(tx db.TxManager) *PgJournal {
	return &PgJournal{tx: tx}
}

// Migrate создаёт таблицы, если их нет.
func (j *PgJournal) Migrate(ctx context.Context) error {
	return j.tx.RunMaster(ctx, func(ctx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctx, schema)
		return err
	})
}

func (j *PgJournal) RecordSignal(ctx context.Context, symbol string, p models.Position) error {
	reasons := p.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	raw, err := sonic.Marshal(reasons)
	if err != nil {
		return errors.Wrap(err, "marshal reasons")
	}

	_, err = j.tx.Conn().Exec(ctx, insertSignal,
		symbol, string(p.Side), p.Entry, p.TakeProfit, p.StopLoss, p.Score, string(raw), p.EntryTime,
	)
	return errors.Wrap(err, "insert signal")
}

func (j *PgJournal) RecordTrade(ctx context.Context, symbol string, t models.ClosedTrade) error {
	_, err := j.tx.Conn().Exec(ctx, insertTrade,
		symbol, string(t.Side), t.Entry, t.Exit, t.EntryTime, t.ExitTime, t.GrossPct, t.NetPct, string(t.Reason),
	)
	return errors.Wrap(err, "insert trade")
}
