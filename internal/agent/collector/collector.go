package collector

import "context"

// Collector defines an inventory collector that reports information about the
// local host (e.g., its name and address).
type Collector interface {
	Name() string
	Collect(ctx context.Context) (map[string]any, error)
}
