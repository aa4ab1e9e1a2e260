package strategy

import "signal_bot/internal/modules/config"

func NewEngine(cfg *config.Config) Engine {
	switch cfg.Variant {
	case config.VariantWeekly:
		return NewScorer("weekly", cfg.Scoring)

	case config.VariantDaily, "":
		fallthrough
	default:
		return NewScorer("daily", cfg.Scoring)
	}
}
