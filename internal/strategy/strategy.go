package strategy

import "signal_bot/internal/models"

// Engine — то, что Runner дергает раз в цикл.
type Engine interface {
	Evaluate(curr models.Snapshot, prev *models.Snapshot) models.Verdict
	Name() string
}
