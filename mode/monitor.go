package mode

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/posturelab/pm-go/model"
	"github.com/posturelab/pm-go/pipeline"
	"github.com/posturelab/pm-go/service/display"
	"github.com/posturelab/pm-go/service/lgr"
	"github.com/posturelab/pm-go/service/source"
)

const heartbeatPeriod = 30 * time.Second

// Monitor is the live monitoring orchestrator: it wires the frame source
// into the capture loop, the capture loop into the scheduler, and the
// scheduler's readings into the result store, alert engine, data service
// and hub. Inability to open the frame source is the only fatal error;
// everything downstream is contained and observable via logs and stats.
func Monitor(parentCtx context.Context, svcs pipeline.ServicesFactory, alerter pipeline.Alerter) error {
	sessionID := uuid.NewString()

	// Child context so the monitor can shut the pipeline down itself when
	// the source runs dry or the user quits the display
	canxCtx, canxFn := context.WithCancel(parentCtx)
	defer canxFn()

	var sourceSvc source.IService
	var displaySvc display.IService
	if svcs.CfgSvc.GetCaptureDevice() == "synthetic" {
		sourceSvc = source.NewSynthetic(svcs.CfgSvc.GetSyntheticFrameLimit())
		displaySvc = display.NewNoop()
	} else {
		sourceSvc = source.NewWebcam(svcs.CfgSvc)
		displaySvc = display.NewWindow()
	}

	if err := sourceSvc.Open(); err != nil {
		displaySvc.Close()
		return fmt.Errorf("monitor failed to open frame source: %w", err)
	}
	defer sourceSvc.Close()
	defer displaySvc.Close()

	lgr.Logger.Info(
		"monitor starting....",
		slog.String("sessionID", sessionID),
		slog.String("source", sourceSvc.Name()),
		slog.Float64("interval", svcs.CfgSvc.GetInferenceInterval()),
		slog.Int("windowCapacity", svcs.CfgSvc.GetWindowCapacity()),
		slog.Int("cooldown", svcs.CfgSvc.GetAlertCooldown()),
	)

	errorStream := make(chan interface{})
	statsStream := make(chan interface{})

	alertStream := alerter(canxCtx, svcs, errorStream, statsStream)

	store := pipeline.NewResultStore()
	engine := pipeline.NewAlertEngine(
		svcs.CfgSvc.GetGoodLabel(),
		svcs.CfgSvc.GetWindowCapacity(),
		time.Duration(svcs.CfgSvc.GetAlertCooldown())*time.Second,
	)

	sched := pipeline.NewScheduler(svcs, store, engine, alertStream, errorStream, statsStream)
	sched.Start(canxCtx)

	// Optional websocket hub for dashboards
	if addr := svcs.CfgSvc.GetHubAddress(); addr != "" {
		go svcs.HubSvc.Run(canxCtx)

		mux := http.NewServeMux()
		mux.Handle("/ws", svcs.HubSvc.Handler())
		server := &http.Server{Addr: addr, Handler: mux}

		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				lgr.Logger.Error(
					"hub server exited",
					slog.Any("error", err),
				)
			}
		}()
		go func() {
			<-canxCtx.Done()
			shutCtx, shutFn := context.WithTimeout(context.Background(), time.Second)
			defer shutFn()
			server.Shutdown(shutCtx)
		}()
	}

	framerDone := make(chan struct{})
	go func() {
		defer close(framerDone)
		pipeline.Framer(canxCtx, svcs, sourceSvc, displaySvc, sched, store, errorStream, statsStream)
	}()

	var monitorStartTime = time.Now().Unix()
	monitorStats := model.MonitorStats{
		ID:     sessionID,
		Source: sourceSvc.Name(),
	}

	// Wait for cancellation, framer exit, stats or errors
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"monitor context cancelled",
			)
			goto resume

		case <-framerDone:
			lgr.Logger.Info(
				"monitor capture loop finished",
			)
			goto resume

		case <-time.After(heartbeatPeriod):
			monitorStats.Uptime = time.Now().Unix() - monitorStartTime
			monitorStats.Timestamp = time.Now().Unix()
			procStats(svcs.DataSvc, monitorStats)
			procStats(svcs.DataSvc, engine.Stats())

		case e := <-errorStream:
			procError(svcs.DataSvc, e)

		case s := <-statsStream:
			procStats(svcs.DataSvc, s)
		}
	}

	// Wait in a non-blocking way for the shutdown period so the pipeline
	// go routines can report their final stats and errors as they exit
resume:
	canxFn()

	lgr.Logger.Info(
		"monitor is waiting for all go routines to exit",
	)

	timer := time.NewTimer(time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime()) * time.Second)
	defer timer.Stop()

	schedDone := sched.Done()
	for {
		if framerDone == nil && schedDone == nil {
			// Capture loop and any in-flight classifier call have settled;
			// drain whatever is left without waiting for the full period
			drainStreams(svcs, errorStream, statsStream)
			return nil
		}

		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"monitor shutdown waiting period expired. Exiting now",
				slog.Duration("period", time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second),
			)
			return nil

		case <-framerDone:
			framerDone = nil

		case <-schedDone:
			schedDone = nil

		case e := <-errorStream:
			procError(svcs.DataSvc, e)

		case s := <-statsStream:
			procStats(svcs.DataSvc, s)
		}
	}
}

func drainStreams(svcs pipeline.ServicesFactory, errorStream, statsStream chan interface{}) {
	deadline := time.After(500 * time.Millisecond)
	for {
		select {
		case e := <-errorStream:
			procError(svcs.DataSvc, e)
		case s := <-statsStream:
			procStats(svcs.DataSvc, s)
		case <-deadline:
			return
		}
	}
}
