package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type fakeConn struct {
	calls []execCall
	err   error
}

func (f *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func (f *fakeConn) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeConn) QueryRow(context.Context, string, ...interface{}) pgx.Row { return nil }

type fakeTxManager struct {
	conn *fakeConn
	txs  int
}

func (m *fakeTxManager) RunMaster(ctx context.Context, fn func(context.Context, db.Transaction) error) error {
	m.txs++
	return fn(ctx, m.conn)
}

func (m *fakeTxManager) Conn() db.Transaction { return m.conn }

func TestPgJournal_RecordSignal(t *testing.T) {
	tm := &fakeTxManager{conn: &fakeConn{}}
	j := NewPgJournal(tm)
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	err := j.RecordSignal(context.Background(), "BTCUSDT", models.Position{
		Side: models.SideBuy, Entry: 100, TakeProfit: 100.8, StopLoss: 97.5,
		EntryTime: at, Score: 5, Reasons: []string{"MACD+", "Vol(1.5x)"},
	})
	require.NoError(t, err)
	require.Len(t, tm.conn.calls, 1)

	call := tm.conn.calls[0]
	assert.Contains(t, call.sql, "INSERT INTO signals")
	require.Len(t, call.args, 8)
	assert.Equal(t, "BTCUSDT", call.args[0])
	assert.Equal(t, "BUY", call.args[1])
	assert.Equal(t, 100.8, call.args[3])
	assert.Equal(t, at, call.args[7])

	var reasons []string
	require.NoError(t, sonic.UnmarshalString(call.args[6].(string), &reasons))
	assert.Equal(t, []string{"MACD+", "Vol(1.5x)"}, reasons)
}

func TestPgJournal_EmptyReasonsAreJSONArray(t *testing.T) {
	tm := &fakeTxManager{conn: &fakeConn{}}
	require.NoError(t, NewPgJournal(tm).RecordSignal(context.Background(), "BTCUSDT", models.Position{Side: models.SideSell}))
	assert.Equal(t, "[]", tm.conn.calls[0].args[6])
}

func TestPgJournal_RecordTrade(t *testing.T) {
	tm := &fakeTxManager{conn: &fakeConn{}}
	tr := models.ClosedTrade{Side: models.SideSell, Entry: 50000, Exit: 51500, NetPct: -3.2, Reason: models.ExitStop}

	require.NoError(t, NewPgJournal(tm).RecordTrade(context.Background(), "BTCUSDT", tr))
	call := tm.conn.calls[0]
	assert.Contains(t, call.sql, "INSERT INTO trades")
	assert.Equal(t, -3.2, call.args[7])
	assert.Equal(t, "stop", call.args[8])
}

func TestPgJournal_ErrorWrapped(t *testing.T) {
	tm := &fakeTxManager{conn: &fakeConn{err: errors.New("connection refused")}}
	err := NewPgJournal(tm).RecordTrade(context.Background(), "BTCUSDT", models.ClosedTrade{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert trade: connection refused")
}

func TestPgJournal_MigrateInTx(t *testing.T) {
	tm := &fakeTxManager{conn: &fakeConn{}}
	require.NoError(t, NewPgJournal(tm).Migrate(context.Background()))
	assert.Equal(t, 1, tm.txs)
	assert.Contains(t, tm.conn.calls[0].sql, "CREATE TABLE IF NOT EXISTS signals")
	assert.Contains(t, tm.conn.calls[0].sql, "CREATE TABLE IF NOT EXISTS trades")
}

func TestNop(t *testing.T) {
	var j Journal = Nop{}
	assert.NoError(t, j.RecordSignal(context.Background(), "BTCUSDT", models.Position{}))
	assert.NoError(t, j.RecordTrade(context.Background(), "BTCUSDT", models.ClosedTrade{}))
}
