package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"

	"github.com/posturelab/pm-go/model"
	"github.com/posturelab/pm-go/service/lgr"
)

// Scheduler gates how often the slow external classifier is invoked and
// keeps the call off the capture/display path. Tick is called once per
// capture iteration by the framer; the classifier runs on a single
// background worker, so at most one call is ever in flight. A tick that
// becomes eligible while a call is outstanding parks its frame in the
// pending slot, replacing any frame already parked there (latest-wins,
// never unbounded queueing).
type Scheduler struct {
	svcs        ServicesFactory
	store       *ResultStore
	engine      *AlertEngine
	alertStream chan AlertData
	errorStream chan interface{}
	statsStream chan interface{}

	interval time.Duration

	// Touched only from the framer goroutine
	lastDispatchAt time.Time

	mu         sync.Mutex
	pending    *FrameData
	gated      int
	replaced   int
	dispatched int
	failures   int
	inferTotal time.Duration

	signal chan struct{}
	done   chan struct{}

	readingsLog *lumberjack.Logger
	startTime   int64
}

func NewScheduler(svcs ServicesFactory,
	store *ResultStore,
	engine *AlertEngine,
	alertStream chan AlertData,
	errorStream chan interface{},
	statsStream chan interface{}) *Scheduler {
	return &Scheduler{
		svcs:        svcs,
		store:       store,
		engine:      engine,
		alertStream: alertStream,
		errorStream: errorStream,
		statsStream: statsStream,
		interval:    time.Duration(svcs.CfgSvc.GetInferenceInterval() * float64(time.Second)),
		signal:      make(chan struct{}, 1),
		done:        make(chan struct{}),
		readingsLog: &lumberjack.Logger{
			Filename:   svcs.CfgSvc.GetReadingsLogFile(),
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     7,    // days
			Compress:   true, // compress old logs
		},
		startTime: time.Now().Unix(),
	}
}

// Start spins up the background inference worker.
func (s *Scheduler) Start(canx context.Context) {
	go s.worker(canx)
}

// Done is closed once the worker has settled after cancellation.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Tick offers one captured frame at time now. The scheduler takes
// ownership of frame.Mat; the caller must hand in a private copy. Tick
// never blocks and never runs the classifier itself.
func (s *Scheduler) Tick(frame FrameData, now time.Time) {
	if !s.lastDispatchAt.IsZero() && now.Sub(s.lastDispatchAt) < s.interval {
		frame.Mat.Close()
		s.mu.Lock()
		s.gated++
		s.mu.Unlock()
		return
	}
	// The gate advances whether or not the call ends up succeeding, so a
	// persistently failing classifier is not retried any faster.
	s.lastDispatchAt = now

	s.mu.Lock()
	if s.pending != nil {
		s.pending.Mat.Close()
		s.replaced++
	}
	s.pending = &frame
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
		// Worker already has a wakeup queued
	}
}

func (s *Scheduler) worker(canx context.Context) {
	defer close(s.done)

	defer func() {
		s.mu.Lock()
		if s.pending != nil {
			s.pending.Mat.Close()
			s.pending = nil
		}
		s.mu.Unlock()

		s.statsStream <- s.Stats()
	}()

	for {
		select {
		case <-canx.Done():
			lgr.Logger.Info(
				"scheduler worker context cancelled",
			)
			return

		case <-s.signal:
			s.mu.Lock()
			frame := s.pending
			s.pending = nil
			s.mu.Unlock()

			if frame == nil {
				continue
			}
			s.process(canx, *frame)
		}
	}
}

func (s *Scheduler) process(canx context.Context, frame FrameData) {
	defer frame.Mat.Close()

	start := time.Now()
	reading, err := s.svcs.ClassifierSvc.Classify(canx, frame.Mat)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.dispatched++
	s.inferTotal += elapsed
	if err != nil {
		s.failures++
	}
	s.mu.Unlock()

	if err != nil {
		// Contained here: the capture/display loop keeps showing the last
		// known reading and the store/engine are left untouched.
		s.emitError(canx, model.GenError("inference_scheduler",
			err,
			map[string]interface{}{"frameTimestamp": frame.Timestamp},
			"classifier call failed"))
		return
	}

	s.store.Publish(reading)

	isGood := reading.Label == s.svcs.CfgSvc.GetGoodLabel()
	decision := s.engine.RecordReading(reading.Label, reading.ObservedAt)

	if err := s.svcs.DataSvc.AppendReading(reading, isGood); err != nil {
		s.emitError(canx, model.GenError("inference_scheduler",
			err,
			map[string]interface{}{},
			"error persisting reading"))
	}

	s.svcs.HubSvc.Broadcast(model.StoredReading{Reading: reading, IsGood: isGood})
	s.logReading(reading, decision)

	if decision != model.Fired {
		return
	}

	select {
	case s.alertStream <- AlertData{
		Mat:        frame.Mat.Clone(),
		Label:      reading.Label,
		Confidence: reading.Confidence,
		Timestamp:  reading.ObservedAt,
	}:
	default:
		lgr.Logger.Warn("alertStream full, dropping alert")
	}
}

func (s *Scheduler) Stats() model.SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var avg float64
	if s.dispatched > 0 {
		avg = s.inferTotal.Seconds() / float64(s.dispatched)
	}

	return model.SchedulerStats{
		Name:           "inferenceScheduler",
		Dispatched:     s.dispatched,
		GatedTicks:     s.gated,
		ReplacedFrames: s.replaced,
		Failures:       s.failures,
		AvgInferTime:   avg,
		Uptime:         time.Now().Unix() - s.startTime,
		Timestamp:      time.Now().Unix(),
	}
}

func (s *Scheduler) emitError(canx context.Context, err model.CustomError) {
	// WARNING: We need an extra check to make sure we don't send on a closed channel
	select {
	case <-canx.Done():
		lgr.Logger.Info("scheduler context cancelled while reporting error")
	case s.errorStream <- err:
	}
}

func (s *Scheduler) logReading(reading model.Reading, decision model.AlertDecision) {
	entry := map[string]interface{}{
		"time":       reading.ObservedAt.Format(time.RFC3339),
		"label":      reading.Label,
		"confidence": reading.Confidence,
		"decision":   decision.String(),
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		lgr.Logger.Error(
			"error marshaling reading log entry",
			slog.Any("error", err),
		)
		return
	}

	if _, err := s.readingsLog.Write(append(jsonData, '\n')); err != nil {
		lgr.Logger.Error(
			"error writing to readings log",
			slog.Any("error", err),
		)
	}
}
