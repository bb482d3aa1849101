// Package metrics records migration statistics of the scaler.
package metrics

// Collector receives the statistics of scaling runs.
type Collector interface {
	// ObserveMove counts one migrated fragment of the given mode and placement tier.
	ObserveMove(mode, tier string)
	// ObservePhase records a finished migration and whether it reached the optimal bound.
	ObservePhase(mode string, seconds float64, optimum bool)
	// SetMaxCoLocation records the largest co-location count after a migration.
	SetMaxCoLocation(mode string, value int)
	// SetOptimalBound records the optimal bound of the latest migration.
	SetOptimalBound(value int)
}
