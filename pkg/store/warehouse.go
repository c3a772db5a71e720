// Package store persists finished run results to SQLite via GORM, an
// optional collaborator the CLI reaches for only when a --db path is
// given — the engine itself never depends on this package.
package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/asyncflow-sim/asyncflow/pkg/common"
	"github.com/asyncflow-sim/asyncflow/pkg/engine"
)

// RunRecord is one completed run's header row.
type RunRecord struct {
	gorm.Model
	RunID             string `gorm:"uniqueIndex"`
	Seed              uint64
	RequestsCompleted int
	EndedAtS          float64
	LatencyMeanS      float64
	LatencyStdDevS    float64
	LatencyP50S       float64
	LatencyP95S       float64
	LatencyP99S       float64
	RanAt             time.Time
}

// RequestRow is one completed request's terminal timing, linked to its
// run by RunID.
type RequestRow struct {
	gorm.Model
	RunID       string `gorm:"index"`
	RequestID   uint64
	CreatedAtS  float64
	FinishedAtS float64
	DurationS   float64
}

// SampleRow is one sampled gauge observation, linked to its run by RunID.
type SampleRow struct {
	gorm.Model
	RunID     string `gorm:"index"`
	AtS       float64
	Metric    string
	Component string
	Value     float64
}

// Warehouse is a GORM-backed SQLite sink for engine.Results.
type Warehouse struct {
	db *gorm.DB
}

// Open creates (or reuses) a SQLite database at path and migrates its
// schema.
func Open(path string) (*Warehouse, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, common.Wrap(common.KindConfiguration, "store", err)
	}
	if err := db.AutoMigrate(&RunRecord{}, &RequestRow{}, &SampleRow{}); err != nil {
		return nil, common.Wrap(common.KindConfiguration, "store", err)
	}
	return &Warehouse{db: db}, nil
}

// SaveRun persists results as one RunRecord plus its request and sample
// rows, in a single transaction. Returns the generated run id.
func (w *Warehouse) SaveRun(seed uint64, results *engine.Results) (string, error) {
	runID := uuid.NewString()

	run := RunRecord{
		RunID:             runID,
		Seed:              seed,
		RequestsCompleted: results.RequestsCompleted,
		EndedAtS:          results.EndedAtS,
		LatencyMeanS:      results.Latency.MeanS,
		LatencyStdDevS:    results.Latency.StdDevS,
		LatencyP50S:       results.Latency.P50S,
		LatencyP95S:       results.Latency.P95S,
		LatencyP99S:       results.Latency.P99S,
		RanAt:             time.Now(),
	}

	err := w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		for _, rec := range results.Records {
			row := RequestRow{RunID: runID, RequestID: rec.RequestID, CreatedAtS: rec.CreatedAtS, FinishedAtS: rec.FinishedAtS, DurationS: rec.DurationS}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, s := range results.Sampled {
			row := SampleRow{RunID: runID, AtS: s.AtS, Metric: s.Metric, Component: s.Component, Value: s.Value}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", common.Wrap(common.KindDelivery, "store", err)
	}
	return runID, nil
}

// LatestRuns returns the n most recently saved run headers, newest first.
func (w *Warehouse) LatestRuns(n int) ([]RunRecord, error) {
	var runs []RunRecord
	if err := w.db.Order("ran_at desc").Limit(n).Find(&runs).Error; err != nil {
		return nil, common.Wrap(common.KindDelivery, "store", err)
	}
	return runs, nil
}

// Close releases the underlying database connection.
func (w *Warehouse) Close() error {
	sqlDB, err := w.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
