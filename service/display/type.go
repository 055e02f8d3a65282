package display

import (
	"gocv.io/x/gocv"
)

// IService renders frames with a status overlay. Rendering is
// fire-and-forget and best-effort.
type IService interface {
	// Render draws the frame and returns true when the user asked to quit.
	Render(frame gocv.Mat, overlay string) bool
	Close() error
}
