package data

import (
	"time"

	"github.com/posturelab/pm-go/model"
)

type IService interface {
	AppendReading(reading model.Reading, isGood bool) error
	RetrieveReadingsSince(since time.Time) ([]model.StoredReading, error)

	NewError(err interface{}) error
	NewMonitorStats(stats model.MonitorStats) error
	NewFramerStats(stats model.FramerStats) error
	NewSchedulerStats(stats model.SchedulerStats) error
	NewAlerterStats(stats model.AlerterStats) error
	NewAlertEngineStats(stats model.AlertEngineStats) error

	Close() error
}
