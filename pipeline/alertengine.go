package pipeline

import (
	"sync"
	"time"

	"github.com/posturelab/pm-go/model"
)

// AlertEngine turns the stream of classification labels into a debounced
// alert signal. It keeps a fixed-capacity ring of good/bad flags; once the
// window is more than half full, a good-count below half the capacity means
// posture has degraded. Firing is debounced by the cooldown.
//
// Callers are expected to serialize RecordReading (the scheduler worker is
// the only producer); the mutex additionally covers the stats reader.
type AlertEngine struct {
	mu sync.Mutex

	goodLabel string
	cooldown  time.Duration

	window []bool
	head   int
	size   int
	good   int

	lastAlertAt time.Time

	readings     int
	goodReadings int
	fired        int
	suppressed   int
}

func NewAlertEngine(goodLabel string, capacity int, cooldown time.Duration) *AlertEngine {
	if capacity < 2 {
		capacity = 2
	}
	return &AlertEngine{
		goodLabel: goodLabel,
		cooldown:  cooldown,
		window:    make([]bool, capacity),
	}
}

// RecordReading inserts one label into the window and evaluates the alert
// condition at the supplied time. Labels outside the expected vocabulary
// count as not-good; they are never an error.
func (e *AlertEngine) RecordReading(label string, now time.Time) model.AlertDecision {
	e.mu.Lock()
	defer e.mu.Unlock()

	isGood := label == e.goodLabel

	e.readings++
	if isGood {
		e.goodReadings++
	}

	// Ring insert; once full, every insertion evicts the oldest flag
	capacity := len(e.window)
	if e.size == capacity {
		if e.window[e.head] {
			e.good--
		}
	} else {
		e.size++
	}
	e.window[e.head] = isGood
	if isGood {
		e.good++
	}
	e.head = (e.head + 1) % capacity

	// Too little data to judge until the window is past half full
	if e.size <= capacity/2 {
		return model.NoAlert
	}

	if e.good >= capacity/2 {
		return model.NoAlert
	}

	if e.lastAlertAt.IsZero() || now.Sub(e.lastAlertAt) >= e.cooldown {
		e.lastAlertAt = now
		e.fired++
		return model.Fired
	}

	e.suppressed++
	return model.Suppressed
}

func (e *AlertEngine) Stats() model.AlertEngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return model.AlertEngineStats{
		Readings:     e.readings,
		GoodReadings: e.goodReadings,
		WindowFill:   e.size,
		Fired:        e.fired,
		Suppressed:   e.suppressed,
		Timestamp:    time.Now().Unix(),
	}
}
