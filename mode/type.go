package mode

import (
	"context"
	"log/slog"

	"github.com/posturelab/pm-go/model"
	"github.com/posturelab/pm-go/pipeline"
	"github.com/posturelab/pm-go/service/data"
	"github.com/posturelab/pm-go/service/lgr"
)

type Processor func(canxCtx context.Context,
	svcs pipeline.ServicesFactory,
	alerter pipeline.Alerter) error

func procStats(datasvc data.IService, stats interface{}) {
	switch stats := stats.(type) {
	case model.MonitorStats:
		procSink(datasvc.NewMonitorStats(stats), stats)
	case model.FramerStats:
		procSink(datasvc.NewFramerStats(stats), stats)
	case model.SchedulerStats:
		procSink(datasvc.NewSchedulerStats(stats), stats)
	case model.AlerterStats:
		procSink(datasvc.NewAlerterStats(stats), stats)
	case model.AlertEngineStats:
		procSink(datasvc.NewAlertEngineStats(stats), stats)
	default:
		lgr.Logger.Error(
			"unknown stats type",
			slog.Any("stats", stats),
		)
	}
}

func procSink(err error, stats interface{}) {
	if err != nil {
		lgr.Logger.Error(
			"failed to store stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procError(datasvc data.IService, err interface{}) {
	errTemp := datasvc.NewError(err)
	if errTemp != nil {
		lgr.Logger.Error(
			"failed to store error",
			slog.Any("error", errTemp),
		)
	}
}
