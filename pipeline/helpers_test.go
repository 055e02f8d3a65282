package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/posturelab/pm-go/model"
	"github.com/posturelab/pm-go/service/config"
	"github.com/posturelab/pm-go/service/hub"
	"github.com/posturelab/pm-go/service/webhook"
)

// testConfig overrides just the options a test cares about; everything
// else falls through to the hardcoded defaults.
type testConfig struct {
	config.IService
	interval    float64
	readingsLog string
}

func (c testConfig) GetInferenceInterval() float64 { return c.interval }
func (c testConfig) GetReadingsLogFile() string    { return c.readingsLog }

type memData struct {
	mu       sync.Mutex
	readings []model.StoredReading
}

func (d *memData) AppendReading(reading model.Reading, isGood bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readings = append(d.readings, model.StoredReading{Reading: reading, IsGood: isGood})
	return nil
}

func (d *memData) RetrieveReadingsSince(_ time.Time) ([]model.StoredReading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.StoredReading, len(d.readings))
	copy(out, d.readings)
	return out, nil
}

func (d *memData) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.readings)
}

func (d *memData) NewError(_ interface{}) error                       { return nil }
func (d *memData) NewMonitorStats(_ model.MonitorStats) error         { return nil }
func (d *memData) NewFramerStats(_ model.FramerStats) error           { return nil }
func (d *memData) NewSchedulerStats(_ model.SchedulerStats) error     { return nil }
func (d *memData) NewAlerterStats(_ model.AlerterStats) error         { return nil }
func (d *memData) NewAlertEngineStats(_ model.AlertEngineStats) error { return nil }
func (d *memData) Close() error                                       { return nil }

type nullStorage struct{}

func (nullStorage) StoreSnapshot(_ string, _ gocv.Mat) (string, error) {
	return "", nil
}

// scriptedClassifier lets tests control latency and failures and records
// how many calls were ever in flight at once.
type scriptedClassifier struct {
	mu           sync.Mutex
	label        string
	failuresLeft int
	started      chan struct{} // one token per call start, when non-nil
	release      chan struct{} // when non-nil, Classify blocks on it
	calls        int
	inFlight     int
	maxInFlight  int
}

func (c *scriptedClassifier) Classify(ctx context.Context, _ gocv.Mat) (model.Reading, error) {
	c.mu.Lock()
	c.calls++
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
	fail := c.failuresLeft > 0
	if fail {
		c.failuresLeft--
	}
	c.mu.Unlock()

	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.release != nil {
		select {
		case <-c.release:
		case <-ctx.Done():
		}
	}

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()

	if fail {
		return model.Reading{}, context.DeadlineExceeded
	}
	return model.Reading{
		Label:      c.label,
		Confidence: 0.9,
		ObservedAt: time.Now(),
	}, nil
}

func (c *scriptedClassifier) totals() (calls, maxInFlight int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls, c.maxInFlight
}

func testServices(t *testing.T, cls *scriptedClassifier, dataSvc *memData, interval float64) ServicesFactory {
	t.Helper()
	return ServicesFactory{
		CfgSvc: testConfig{
			IService:    config.NewHardCoded(),
			interval:    interval,
			readingsLog: filepath.Join(t.TempDir(), "readings.log"),
		},
		DataSvc:       dataSvc,
		ClassifierSvc: cls,
		StorageSvc:    nullStorage{},
		WebhookSvc:    webhook.NewFake(),
		HubSvc:        hub.NewFake(),
	}
}

func testFrame() FrameData {
	return FrameData{
		Mat:       gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3),
		Timestamp: time.Now(),
	}
}

func waitFor(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("Timeout waiting for %s", what)
	}
}
