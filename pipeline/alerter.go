package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/posturelab/pm-go/model"
	"github.com/posturelab/pm-go/service/lgr"
)

// SimpleAlerter drains fired alerts off the hot path: it rings the
// terminal bell, stores a snapshot of the alerted frame and posts the
// webhook payload. All side effects are best-effort.
func SimpleAlerter(canx context.Context, svcs ServicesFactory, errorStream chan interface{}, statsStream chan interface{}) chan AlertData {
	in := make(chan AlertData, 100)

	go func() {
		var startTime = time.Now().Unix()
		var alerts = 0
		var errorCount = 0

		defer func() {
			statsStream <- model.AlerterStats{
				Name:      "simpleAlerter",
				Alerts:    alerts,
				Errors:    errorCount,
				Uptime:    time.Now().Unix() - startTime,
				Timestamp: time.Now().Unix(),
			}
		}()

		for {
			select {
			case <-canx.Done():
				lgr.Logger.Info(
					"alerter context cancelled",
				)
				return

			case alert := <-in:
				alerts++

				// Audible nudge on the terminal
				fmt.Print("\a")

				snapshotPath, err := svcs.StorageSvc.StoreSnapshot("posture", alert.Mat)
				if err != nil {
					errorCount++
					lgr.Logger.Error(
						"error storing alert snapshot",
						slog.Any("error", err),
					)
				}

				lgr.Logger.Info(
					"alert fired",
					slog.String("label", alert.Label),
					slog.Float64("confidence", float64(alert.Confidence)),
					slog.String("snapshot", snapshotPath),
					slog.Time("timestamp", alert.Timestamp),
				)

				payload := map[string]interface{}{
					"source":       "posture-monitor",
					"label":        alert.Label,
					"confidence":   alert.Confidence,
					"snapshotPath": snapshotPath,
					"timestamp":    alert.Timestamp.Format(time.RFC3339),
				}
				if err := svcs.WebhookSvc.Post(payload); err != nil {
					errorCount++
					lgr.Logger.Error(
						"error posting alert webhook",
						slog.Any("error", err),
					)
				}

				alert.Mat.Close() // Crucial to close the image to avoid memory leaks
			}
		}
	}()

	return in
}
