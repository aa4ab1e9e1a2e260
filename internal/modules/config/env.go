package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "BOT"

// Env — переопределения из окружения. Ключи читаются как BOT_<KEY>;
// TELEGRAM_TOKEN, TELEGRAM_CHAT_ID и DATABASE_DSN понимаются и без префикса.
type Env struct {
	v *viper.Viper
}

func NewEnv() *Env {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_token", "TELEGRAM_TOKEN", "BOT_TELEGRAM_TOKEN")
	_ = v.BindEnv("telegram_chat_id", "TELEGRAM_CHAT_ID", "BOT_TELEGRAM_CHAT_ID")
	_ = v.BindEnv("database_dsn", "DATABASE_DSN", "BOT_DATABASE_DSN")

	return &Env{v: v}
}

// NewEnvFrom — env поверх заранее заполненного viper (тесты без os.Setenv).
func NewEnvFrom(v *viper.Viper) *Env {
	return &Env{v: v}
}

// Variant — вариант из env, иначе из файла, иначе daily.
func (e *Env) Variant(fromFile string) string {
	if e.v.IsSet("variant") {
		return e.v.GetString("variant")
	}
	if fromFile != "" {
		return fromFile
	}
	return VariantDaily
}

func (e *Env) Apply(c *Config) {
	e.setString("telegram_token", &c.Telegram.Token)
	e.setInt64("telegram_chat_id", &c.Telegram.ChatID)
	e.setDuration("telegram_timeout", &c.Telegram.Timeout)
	e.setString("database_dsn", &c.DB)
	e.setString("log_level", &c.Service.LogLevel)
	e.setString("health_addr", &c.Service.HealthAddr)
	e.setBool("tracing_enabled", &c.Tracing.Enabled)
	e.setString("tracing_host", &c.Tracing.Host)
	e.setInt("tracing_port", &c.Tracing.Port)

	e.setString("provider", &c.Exchange.Provider)
	e.setString("symbol", &c.Exchange.Symbol)
	e.setString("timeframe", &c.Exchange.Timeframe)
	e.setInt("limit", &c.Exchange.Limit)

	e.setInt("rsi_period", &c.Indicators.RSIPeriod)
	e.setFloat("rsi_oversold", &c.Scoring.RSIOversold)
	e.setFloat("rsi_overbought", &c.Scoring.RSIOverbought)
	e.setFloat("volume_multiplier", &c.Scoring.VolumeMultiplier)
	e.setFloat("min_score", &c.Scoring.MinScore)

	e.setFloat("take_profit_pct", &c.Trading.TakeProfitPct)
	e.setFloat("stop_loss_pct", &c.Trading.StopLossPct)
	e.setFloat("commission_pct", &c.Trading.CommissionPct)
	e.setFloat("period_target_pct", &c.Trading.PeriodTargetPct)
	e.setInt("per_period_cap", &c.Trading.PerPeriodCap)
	e.setDuration("min_signal_interval", &c.Trading.MinSignalInterval)

	e.setDuration("poll_interval", &c.Scheduler.PollInterval)
	e.setDuration("retry_backoff", &c.Scheduler.RetryBackoff)
	e.setInt("max_consecutive_failures", &c.Scheduler.MaxConsecutiveFailures)
}

func (e *Env) setString(key string, dst *string) {
	if e.v.IsSet(key) {
		*dst = e.v.GetString(key)
	}
}

func (e *Env) setInt(key string, dst *int) {
	if e.v.IsSet(key) {
		*dst = e.v.GetInt(key)
	}
}

func (e *Env) setInt64(key string, dst *int64) {
	if e.v.IsSet(key) {
		*dst = e.v.GetInt64(key)
	}
}

func (e *Env) setFloat(key string, dst *float64) {
	if e.v.IsSet(key) {
		*dst = e.v.GetFloat64(key)
	}
}

func (e *Env) setBool(key string, dst *bool) {
	if e.v.IsSet(key) {
		*dst = e.v.GetBool(key)
	}
}

func (e *Env) setDuration(key string, dst *time.Duration) {
	if e.v.IsSet(key) {
		*dst = e.v.GetDuration(key)
	}
}
