package engine

import "github.com/synnergy-labs/fastlane-engine/internal/metrics"

// Metrics is a thin alias so engine handlers can reference ctx.Metrics.Xxx
// without importing internal/metrics directly; the field types are exactly
// the prometheus collectors internal/metrics.New registers.
type Metrics = metrics.Collectors
