package runner

import (
	"context"
	"time"

	"signal_bot/internal/helper"
)

// Clock — источник времени цикла; в тестах виртуальный.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error { return helper.Sleep(ctx, d) }
