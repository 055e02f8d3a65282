package model

import (
	"fmt"
	"runtime/debug"
	"time"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

// Reading is the result of one completed classifier call.
// Immutable after creation.
type Reading struct {
	Label      string    `json:"label"`
	Confidence float32   `json:"confidence"`
	ObservedAt time.Time `json:"observedAt"`
}

// StoredReading is a Reading as persisted by the data service,
// together with the good/bad flag derived at record time.
type StoredReading struct {
	Reading
	IsGood bool `json:"isGood"`
}

// AlertDecision is the outcome of feeding one reading to the alert engine.
type AlertDecision int

const (
	NoAlert AlertDecision = iota
	Suppressed
	Fired
)

func (d AlertDecision) String() string {
	switch d {
	case NoAlert:
		return "noAlert"
	case Suppressed:
		return "suppressed"
	case Fired:
		return "fired"
	default:
		return "unknown"
	}
}

type FramerStats struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	Frames    int    `json:"frames"`
	Errors    int    `json:"errors"`
	FPS       int    `json:"fps"`
	Uptime    int64  `json:"uptime"`
	Timestamp int64  `json:"timestamp"`
}

type SchedulerStats struct {
	Name           string  `json:"name"`
	Dispatched     int     `json:"dispatched"`
	GatedTicks     int     `json:"gatedTicks"`
	ReplacedFrames int     `json:"replacedFrames"`
	Failures       int     `json:"failures"`
	AvgInferTime   float64 `json:"avgInferTime"`
	Uptime         int64   `json:"uptime"`
	Timestamp      int64   `json:"timestamp"`
}

type AlerterStats struct {
	Name      string `json:"name"`
	Alerts    int    `json:"alerts"`
	Errors    int    `json:"errors"`
	Uptime    int64  `json:"uptime"`
	Timestamp int64  `json:"timestamp"`
}

type AlertEngineStats struct {
	Readings     int   `json:"readings"`
	GoodReadings int   `json:"goodReadings"`
	WindowFill   int   `json:"windowFill"`
	Fired        int   `json:"fired"`
	Suppressed   int   `json:"suppressed"`
	Timestamp    int64 `json:"timestamp"`
}

type MonitorStats struct {
	ID        string `json:"id"`     // Monitor session ID
	Source    string `json:"source"` // Capture device or URL
	Uptime    int64  `json:"uptime"` // Uptime of the monitor session
	Timestamp int64  `json:"timestamp"`
}
