package mode

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/posturelab/pm-go/pipeline"
)

// Report prints a posture summary of the recent readings and exits. The
// lookback window defaults to one hour and can be overridden with
// PM_REPORT_HOURS.
func Report(_ context.Context, svcs pipeline.ServicesFactory, _ pipeline.Alerter) error {
	hours := 1
	if v := os.Getenv("PM_REPORT_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			hours = parsed
		}
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	readings, err := svcs.DataSvc.RetrieveReadingsSince(since)
	if err != nil {
		return fmt.Errorf("report failed to retrieve readings: %w", err)
	}

	if len(readings) == 0 {
		color.Yellow("no readings recorded in the last %d hour(s)", hours)
		return nil
	}

	good := 0
	badStreak := 0
	longestBadStreak := 0
	for _, r := range readings {
		if r.IsGood {
			good++
			badStreak = 0
			continue
		}
		badStreak++
		if badStreak > longestBadStreak {
			longestBadStreak = badStreak
		}
	}

	ratio := float64(good) / float64(len(readings)) * 100

	fmt.Printf("posture summary, last %d hour(s)\n", hours)
	fmt.Printf("  first reading: %s\n", readings[0].ObservedAt.Local().Format("15:04:05"))
	fmt.Printf("  last reading:  %s\n", readings[len(readings)-1].ObservedAt.Local().Format("15:04:05"))
	fmt.Printf("  readings:      %d\n", len(readings))

	if ratio >= 50 {
		color.Green("  good posture:  %d (%.1f%%)", good, ratio)
	} else {
		color.Red("  good posture:  %d (%.1f%%)", good, ratio)
	}
	if longestBadStreak > 0 {
		color.Red("  longest bad streak: %d readings", longestBadStreak)
	}

	return nil
}
