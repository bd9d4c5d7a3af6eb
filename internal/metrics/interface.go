package metrics

import (
	"context"
	"time"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Repository defines the interface for metrics data storage
type Repository interface {
	Record(snapshot *Snapshot) error
	Close() error
}

// Snapshot is one control-loop tick. The named sensor temperatures are nil
// when that sensor was not discovered.
type Snapshot struct {
	Timestamp   time.Time
	FanSpeed    int
	Source      string
	AvgTemp     float64
	TC0P        *float64
	TG0P        *float64
	SensorCount int
}
