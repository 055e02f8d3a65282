package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/posturelab/pm-go/model"
	"github.com/posturelab/pm-go/service/display"
	"github.com/posturelab/pm-go/service/lgr"
	"github.com/posturelab/pm-go/service/source"
)

// Framer is the fast capture/display loop. Once per iteration it pulls a
// frame, offers a private copy to the scheduler, and renders the latest
// published reading as an overlay. It never blocks on the classifier; a
// stalled classifier only means the overlay goes stale.
//
// Returns when the source is exhausted, the user quits the display, or the
// context is cancelled.
func Framer(canxCtx context.Context,
	svcs ServicesFactory,
	sourceSvc source.IService,
	displaySvc display.IService,
	sched *Scheduler,
	store *ResultStore,
	errorStream chan interface{},
	statsStream chan interface{}) {
	delay := time.Second / time.Duration(svcs.CfgSvc.GetCaptureFPS())

	var startTime = time.Now().Unix()
	var frames = 0
	var errorCount = 0

	defer func() {
		uptime := time.Now().Unix() - startTime
		fps := 0
		if uptime > 0 {
			fps = int(float64(frames) / float64(uptime))
		}
		statsStream <- model.FramerStats{
			Name:      "framer",
			Source:    sourceSvc.Name(),
			Frames:    frames,
			Errors:    errorCount,
			Uptime:    uptime,
			FPS:       fps,
			Timestamp: time.Now().Unix(),
		}
	}()

	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"framer context cancelled",
			)
			return

		default:
			img, err := sourceSvc.Next()
			if err != nil {
				if errors.Is(err, source.ErrExhausted) {
					// End of stream is a clean stop, not an error
					lgr.Logger.Info(
						"frame source exhausted",
						slog.String("source", sourceSvc.Name()),
					)
					return
				}

				errorCount++
				// WARNING: We need an extra check to make sure we don't send on a closed channel
				select {
				case <-canxCtx.Done():
					lgr.Logger.Info("framer context cancelled while reporting error")
					return
				case errorStream <- model.GenError("framer",
					err,
					map[string]interface{}{},
					"error reading frame"):
				}
				continue
			}

			frames++

			// The scheduler gets its own copy so the capture buffer can be
			// reused immediately
			now := time.Now()
			sched.Tick(FrameData{Mat: img.Clone(), Timestamp: now}, now)

			overlay := "warming up..."
			if reading, ok := store.Current(); ok {
				overlay = fmt.Sprintf("%s (%.0f%%)", reading.Label, reading.Confidence*100)
			}
			if quit := displaySvc.Render(img, overlay); quit {
				lgr.Logger.Info("framer display quit requested")
				return
			}

			// CPU yield between ticks; tuning, not correctness
			select {
			case <-canxCtx.Done():
			case <-time.After(delay):
			}
		}
	}
}
