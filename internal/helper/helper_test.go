package helper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormTF(t *testing.T) {
	assert.Equal(t, "1h", NormTF("60m"))
	assert.Equal(t, "1h", NormTF(" 1H "))
	assert.Equal(t, "15m", NormTF("candle15m"))
	assert.Equal(t, "1d", NormTF("1D"))
}

func TestTimeframeDuration(t *testing.T) {
	assert.Equal(t, 15*time.Minute, TimeframeDuration("15m"))
	assert.Equal(t, time.Hour, TimeframeDuration("1H"))
	assert.Equal(t, 7*24*time.Hour, TimeframeDuration("1w"))
	assert.Zero(t, TimeframeDuration("7m"))
}

func TestStale(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	assert.False(t, Stale(now.Add(-30*time.Minute), now, "15m"))
	assert.True(t, Stale(now.Add(-50*time.Minute), now, "15m"))
	assert.False(t, Stale(time.Time{}, now, "15m"))
	assert.False(t, Stale(now.Add(-time.Hour), now, "bogus"))
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
	assert.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.DeadlineExceeded)
}
