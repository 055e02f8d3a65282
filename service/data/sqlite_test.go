package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/posturelab/pm-go/model"
)

func setupTestDB(t *testing.T) IService {
	t.Helper()

	svc, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { svc.Close() })

	return svc
}

func TestAppendAndRetrieveReadings(t *testing.T) {
	svc := setupTestDB(t)

	base := time.Now().Add(-10 * time.Minute)
	readings := []model.StoredReading{
		{Reading: model.Reading{Label: "looks good", Confidence: 0.91, ObservedAt: base}, IsGood: true},
		{Reading: model.Reading{Label: "slouching", Confidence: 0.77, ObservedAt: base.Add(time.Minute)}, IsGood: false},
		{Reading: model.Reading{Label: "looks good", Confidence: 0.88, ObservedAt: base.Add(2 * time.Minute)}, IsGood: true},
	}
	for _, r := range readings {
		if err := svc.AppendReading(r.Reading, r.IsGood); err != nil {
			t.Fatalf("AppendReading failed: %v", err)
		}
	}

	got, err := svc.RetrieveReadingsSince(base.Add(-time.Minute))
	if err != nil {
		t.Fatalf("RetrieveReadingsSince failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 readings, got %d", len(got))
	}

	// Ordered by observation time, flags intact
	if got[0].Label != "looks good" || !got[0].IsGood {
		t.Errorf("First reading mismatch: %+v", got[0])
	}
	if got[1].Label != "slouching" || got[1].IsGood {
		t.Errorf("Second reading mismatch: %+v", got[1])
	}

	// A later cutoff excludes older readings
	got, err = svc.RetrieveReadingsSince(base.Add(90 * time.Second))
	if err != nil {
		t.Fatalf("RetrieveReadingsSince failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected 1 reading after cutoff, got %d", len(got))
	}
}

func TestRetrieveFromEmptyDB(t *testing.T) {
	svc := setupTestDB(t)

	got, err := svc.RetrieveReadingsSince(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("RetrieveReadingsSince failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no readings, got %d", len(got))
	}
}

func TestErrorAndStatsSinks(t *testing.T) {
	svc := setupTestDB(t)

	custom := model.GenError("test_proc", nil, map[string]interface{}{}, "something broke: %d", 42)
	if err := svc.NewError(custom); err != nil {
		t.Errorf("NewError with CustomError failed: %v", err)
	}
	if err := svc.NewError("plain string error"); err != nil {
		t.Errorf("NewError with plain value failed: %v", err)
	}

	if err := svc.NewSchedulerStats(model.SchedulerStats{Name: "inferenceScheduler", Dispatched: 7}); err != nil {
		t.Errorf("NewSchedulerStats failed: %v", err)
	}
	if err := svc.NewAlertEngineStats(model.AlertEngineStats{Readings: 12, Fired: 1}); err != nil {
		t.Errorf("NewAlertEngineStats failed: %v", err)
	}
}
