package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"

	"github.com/posturelab/pm-go/mode"
	"github.com/posturelab/pm-go/pipeline"
	"github.com/posturelab/pm-go/service/classifier"
	"github.com/posturelab/pm-go/service/config"
	"github.com/posturelab/pm-go/service/hub"
	"github.com/posturelab/pm-go/service/lgr"
	"github.com/posturelab/pm-go/service/storage"
	"github.com/posturelab/pm-go/service/webhook"

	datasvc "github.com/posturelab/pm-go/service/data"
)

const (
	// WARNING: this has to be bigger than the mode processor shutdown time
	waitOnShutdown = 8 * time.Second
)

var modeProcessors = map[string]mode.Processor{
	"monitor": mode.Monitor,
	"report":  mode.Report,
}

func main() {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		lgr.Logger.Info("loading env vars from .env file")
		err := godotenv.Load()
		if err != nil {
			lgr.Logger.Error("error loading .env file", slog.Any("error", xerrors.New(err.Error())))
			panic("error loading .env file")
		}
	}

	modeType := "monitor"
	args := os.Args[1:]
	if len(args) > 0 {
		modeType = args[0]
	}

	modeProc, ok := modeProcessors[modeType]
	if !ok {
		lgr.Logger.Error("invalid mode", slog.String("mode", modeType))
		panic("invalid mode")
	}

	// Create the services needed for the mode processor
	// Config service
	var cfgSvc config.IService
	if path := os.Getenv("PM_CONFIG_FILE"); path != "" {
		var err error
		cfgSvc, err = config.NewFile(path)
		if err != nil {
			lgr.Logger.Error("error loading config file", slog.Any("error", xerrors.New(err.Error())))
			panic("error loading config file")
		}
	} else {
		cfgSvc = config.NewHardCoded()
	}

	// Data service
	dataSvc, err := datasvc.NewSQLite(cfgSvc.GetReadingsDBPath())
	if err != nil {
		lgr.Logger.Error("error opening readings database", slog.Any("error", xerrors.New(err.Error())))
		panic("error opening readings database")
	}
	defer dataSvc.Close()

	// Classifier service
	classifierSvc := classifier.NewRoboflow(cfgSvc, os.Getenv("ROBOFLOW_API_KEY"))
	// Storage service
	storageSvc := storage.NewFiles(cfgSvc)
	// Webhook service
	webhookSvc := webhook.NewHTTP(cfgSvc)
	// Hub service
	hubSvc := hub.NewFake()
	if cfgSvc.GetHubAddress() != "" {
		hubSvc = hub.NewWebsocket()
	}

	svcs := pipeline.ServicesFactory{
		CfgSvc:        cfgSvc,
		DataSvc:       dataSvc,
		ClassifierSvc: classifierSvc,
		StorageSvc:    storageSvc,
		WebhookSvc:    webhookSvc,
		HubSvc:        hubSvc,
	}

	// Create mode processor result
	modeProcResult := make(chan error)
	defer close(modeProcResult)

	// Use the library simple alerter

	// Start the mode processor
	go func() {
		modeProcResult <- modeProc(canxCtx, svcs, pipeline.SimpleAlerter)
	}()

	// Wait for cancellation, mode proc or error
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"monitor pod context cancelled",
			)
			goto resume

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"monitor pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
			goto resume
		}
	}

	// Wait in a non-blocking way for `waitOnShutdown` for all the go routines to exit
	// This is needed because the go routines may need to report errors as they are existing
resume:
	// Cancel the context if not already cancelled
	if canxCtx.Err() == nil {
		// Force cancel the context
		canxFn()
	}

	lgr.Logger.Info(
		"monitor pod is waiting for all go routines to exit",
	)

	// The only way to exit the main function is to wait for the shutdown
	// duration
	timer := time.NewTimer(waitOnShutdown)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"monitor pod shutdown waiting period expired. Exiting now",
				slog.Duration("period", waitOnShutdown),
			)

			return

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"monitor pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
		}
	}
}
