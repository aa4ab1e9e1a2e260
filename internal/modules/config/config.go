package config

import (
	"bytes"
	"os"
	"time"

	"signal_bot/internal/helper"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDir         = "configs/"
	defaultConfigFile = "values_local.yaml"
)

// Config — вся конфигурация бота. Передаётся по значению в каждый компонент
// через соответствующую секцию.
type Config struct {
	Variant string `yaml:"variant"` // daily | weekly

	Service struct {
		Name       string `yaml:"name"`
		LogLevel   string `yaml:"log_level"`
		HealthAddr string `yaml:"health_addr"`
	} `yaml:"service"`

	Telegram Telegram `yaml:"telegram"`
	DB       string   `yaml:"db_dsn"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`

	Exchange   Exchange   `yaml:"exchange"`
	Indicators Indicators `yaml:"indicators"`
	Scoring    Scoring    `yaml:"scoring"`
	Trading    Trading    `yaml:"trading"`
	Scheduler  Scheduler  `yaml:"scheduler"`
}

type Telegram struct {
	Token      string        `yaml:"token"`
	ChatID     int64         `yaml:"chat_id"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Timeout    time.Duration `yaml:"timeout"` // на один HTTP-запрос к Bot API
}

type Exchange struct {
	Provider  string        `yaml:"provider"` // binance | okx
	BaseURL   string        `yaml:"base_url"`
	Symbol    string        `yaml:"symbol"`
	Timeframe string        `yaml:"timeframe"`
	Limit     int           `yaml:"limit"`
	Timeout   time.Duration `yaml:"timeout"`

	// повторы на транзиентных ошибках внутри одного цикла
	Retries        int           `yaml:"retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	RateLimitDelay time.Duration `yaml:"rate_limit_delay"`

	RequestsPerMinute int           `yaml:"requests_per_minute"`
	BreakerFailures   uint32        `yaml:"breaker_failures"`
	BreakerTimeout    time.Duration `yaml:"breaker_timeout"`
}

type Indicators struct {
	RSIPeriod    int     `yaml:"rsi_period"`
	EMAShort     int     `yaml:"ema_short"`
	EMAMedium    int     `yaml:"ema_medium"`
	EMALong      int     `yaml:"ema_long"`
	MACDFast     int     `yaml:"macd_fast"`
	MACDSlow     int     `yaml:"macd_slow"`
	MACDSignal   int     `yaml:"macd_signal"`
	BBPeriod     int     `yaml:"bb_period"`
	BBStdDev     float64 `yaml:"bb_std_dev"`
	StochK       int     `yaml:"stoch_k"`
	StochD       int     `yaml:"stoch_d"`
	VolumePeriod int     `yaml:"volume_period"`
	ATRPeriod    int     `yaml:"atr_period"`
}

type Scoring struct {
	RSIOversold   float64 `yaml:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought"`

	BandLow  float64 `yaml:"band_low"`
	BandHigh float64 `yaml:"band_high"`

	// true: свежий кросс MACD = 1, удержание = 0.5
	MACDCrossover bool `yaml:"macd_crossover"`

	TrendLine      string  `yaml:"trend_line"`      // medium | long
	TrendTolerance float64 `yaml:"trend_tolerance"` // 0.01 => 1%, 0 выключает пол-балла

	Stochastic bool    `yaml:"stochastic"`
	StochLow   float64 `yaml:"stoch_low"`
	StochHigh  float64 `yaml:"stoch_high"`

	VolumeMultiplier float64 `yaml:"volume_multiplier"`
	VWAP             bool    `yaml:"vwap"`

	MinScore float64 `yaml:"min_score"`
}

type Trading struct {
	Period            string        `yaml:"period"` // daily | weekly
	TakeProfitPct     float64       `yaml:"take_profit_pct"`
	StopLossPct       float64       `yaml:"stop_loss_pct"`
	StopLossATRMult   float64       `yaml:"stop_loss_atr_mult"` // >0: стоп от ATR, StopLossPct как запасной
	CommissionPct     float64       `yaml:"commission_pct"`
	PeriodTargetPct   float64       `yaml:"period_target_pct"`
	PerPeriodCap      int           `yaml:"per_period_cap"`
	MinSignalInterval time.Duration `yaml:"min_signal_interval"`
}

type Scheduler struct {
	PollInterval           time.Duration `yaml:"poll_interval"`
	RetryBackoff           time.Duration `yaml:"retry_backoff"`
	MaxConsecutiveFailures int           `yaml:"max_consecutive_failures"`
	MinBars                int           `yaml:"min_bars"`
}

// NewConfig читает configs/$CONFIG_FILE поверх пресета варианта и применяет env.
func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = defaultConfigFile
	}

	return Load(configDir+configFileName, NewEnv())
}

// Load — то же, что NewConfig, но с явным путём и источником env (для тестов).
// Отсутствующий файл не ошибка: работаем на дефолтах.
func Load(path string, env *Env) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var head struct {
		Variant string `yaml:"variant"`
	}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &head); err != nil {
			return nil, errors.Wrapf(err, "decode config %s", path)
		}
	}
	variant := env.Variant(head.Variant)

	config, err := Default(variant)
	if err != nil {
		return nil, err
	}

	if len(raw) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(raw))
		decoder.SetStrict(true)
		if err := decoder.Decode(config); err != nil {
			return nil, errors.Wrapf(err, "decode config %s", path)
		}
	}
	config.Variant = variant

	env.Apply(config)
	config.Exchange.Timeframe = helper.NormTF(config.Exchange.Timeframe)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Default — конфигурация пресета без файла и env.
func Default(variant string) (*Config, error) {
	p, ok := Presets[variant]
	if !ok {
		return nil, errors.Errorf("unknown variant %q", variant)
	}

	config := &Config{Variant: variant}
	config.Service.Name = "signal_bot"
	config.Service.LogLevel = "info"
	config.Service.HealthAddr = ":8080"

	config.Telegram.Retries = 3
	config.Telegram.RetryDelay = 2 * time.Second
	config.Telegram.Timeout = 10 * time.Second

	config.Tracing.Host = "localhost"
	config.Tracing.Port = 6831

	config.Exchange = Exchange{
		Provider:          "binance",
		Symbol:            "BTCUSDT",
		Limit:             200,
		Timeout:           10 * time.Second,
		Retries:           3,
		RetryDelay:        5 * time.Second,
		RateLimitDelay:    10 * time.Second,
		RequestsPerMinute: 20,
		BreakerFailures:   5,
		BreakerTimeout:    time.Minute,
	}

	config.Indicators.VolumePeriod = 20
	config.Indicators.ATRPeriod = 14

	config.Scoring.BandLow = 0.2
	config.Scoring.BandHigh = 0.8
	config.Scoring.StochLow = 20
	config.Scoring.StochHigh = 80

	config.Scheduler.MaxConsecutiveFailures = 10

	p.Apply(config)
	return config, nil
}

func (c *Config) Validate() error {
	in := c.Indicators
	switch {
	case in.RSIPeriod < 2:
		return errors.New("indicators.rsi_period must be >= 2")
	case in.EMAShort < 2 || in.EMAMedium <= in.EMAShort || in.EMALong <= in.EMAMedium:
		return errors.New("indicators: ema windows must satisfy 2 <= short < medium < long")
	case in.MACDFast < 2 || in.MACDSlow <= in.MACDFast || in.MACDSignal < 1:
		return errors.New("indicators: macd windows must satisfy 2 <= fast < slow, signal >= 1")
	case in.BBPeriod < 2 || in.BBStdDev <= 0:
		return errors.New("indicators: bollinger period must be >= 2 and std dev > 0")
	case in.StochK < 1 || in.StochD < 1:
		return errors.New("indicators: stochastic windows must be >= 1")
	case in.VolumePeriod < 1 || in.ATRPeriod < 1:
		return errors.New("indicators: volume and atr periods must be >= 1")
	}

	sc := c.Scoring
	switch {
	case sc.RSIOversold >= sc.RSIOverbought:
		return errors.New("scoring: rsi_oversold must be below rsi_overbought")
	case sc.BandLow >= sc.BandHigh:
		return errors.New("scoring: band_low must be below band_high")
	case sc.TrendLine != TrendMedium && sc.TrendLine != TrendLong:
		return errors.Errorf("scoring: unknown trend_line %q", sc.TrendLine)
	case sc.TrendTolerance < 0:
		return errors.New("scoring: trend_tolerance must be >= 0")
	case sc.MinScore <= 0:
		return errors.New("scoring: min_score must be > 0")
	}

	tr := c.Trading
	switch {
	case tr.Period != PeriodDaily && tr.Period != PeriodWeekly:
		return errors.Errorf("trading: unknown period %q", tr.Period)
	case tr.TakeProfitPct <= 0 || tr.StopLossPct <= 0:
		return errors.New("trading: take_profit_pct and stop_loss_pct must be > 0")
	case tr.StopLossATRMult < 0 || tr.CommissionPct < 0:
		return errors.New("trading: stop_loss_atr_mult and commission_pct must be >= 0")
	case tr.PerPeriodCap < 1:
		return errors.New("trading: per_period_cap must be >= 1")
	case tr.MinSignalInterval < 0:
		return errors.New("trading: min_signal_interval must be >= 0")
	}

	sch := c.Scheduler
	switch {
	case sch.PollInterval <= 0:
		return errors.New("scheduler: poll_interval must be > 0")
	case sch.RetryBackoff <= 0 || sch.RetryBackoff >= sch.PollInterval:
		return errors.New("scheduler: retry_backoff must be > 0 and shorter than poll_interval")
	case sch.MaxConsecutiveFailures < 1:
		return errors.New("scheduler: max_consecutive_failures must be >= 1")
	case sch.MinBars < 2:
		return errors.New("scheduler: min_bars must be >= 2")
	case c.Exchange.Limit < sch.MinBars:
		return errors.New("exchange.limit must be >= scheduler.min_bars")
	}

	if helper.TimeframeDuration(c.Exchange.Timeframe) == 0 {
		return errors.Errorf("exchange: unsupported timeframe %q", c.Exchange.Timeframe)
	}
	switch c.Exchange.Provider {
	case ProviderBinance, ProviderOKX:
	default:
		return errors.Errorf("exchange: unknown provider %q", c.Exchange.Provider)
	}
	if c.Telegram.Retries < 1 {
		return errors.New("telegram.retries must be >= 1")
	}
	if c.Telegram.Timeout <= 0 {
		return errors.New("telegram.timeout must be > 0")
	}
	return nil
}
