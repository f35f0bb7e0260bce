package app

import (
	"go.uber.org/zap"

	models "bazaar-radar/database/models_pkg"
	"bazaar-radar/database/types"
)

// dedupKey identifies an alert for deduplication purposes: the same rule
// firing for the same keyword. Keyword-less suggestion alerts dedupe
// against each other per type.
type dedupKey struct {
	Type    models.AlertType
	Keyword string
	HasKey  bool
}

func keyFor(alertType models.AlertType, keyword *string) dedupKey {
	k := dedupKey{Type: alertType}
	if keyword != nil {
		k.Keyword = *keyword
		k.HasKey = true
	}
	return k
}

// Deduplicator suppresses candidates that duplicate an alert the user has
// not yet looked at. Once an alert is read, acted on or dismissed, the same
// rule may fire again.
type Deduplicator struct {
	logger *zap.SugaredLogger
}

// NewDeduplicator creates a deduplication gate.
func NewDeduplicator(logger *zap.SugaredLogger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// Filter returns the candidates that survive deduplication against the
// user's open alerts, plus the suppressed count. Candidates are checked
// sequentially, so duplicates within the same batch are also suppressed.
func (d *Deduplicator) Filter(open []models.Alert, candidates []types.AlertCandidate) ([]types.AlertCandidate, int) {
	seen := make(map[dedupKey]bool, len(open)+len(candidates))
	for _, alert := range open {
		seen[keyFor(alert.Type, alert.Keyword)] = true
	}

	survivors := make([]types.AlertCandidate, 0, len(candidates))
	suppressed := 0

	for _, cand := range candidates {
		key := keyFor(cand.Type, cand.Keyword)
		if seen[key] {
			suppressed++
			continue
		}
		seen[key] = true
		survivors = append(survivors, cand)
	}

	if suppressed > 0 {
		d.logger.Debugw("duplicate candidates suppressed", "count", suppressed)
	}
	return survivors, suppressed
}
