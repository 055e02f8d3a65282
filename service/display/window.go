package display

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

type windowService struct {
	window *gocv.Window
}

// NewWindow renders frames into a desktop window with the current status
// overlaid top-left and a key hint at the bottom. 'q' quits.
func NewWindow() IService {
	return &windowService{
		window: gocv.NewWindow("Posture Monitor"),
	}
}

func (svc *windowService) Render(frame gocv.Mat, overlay string) bool {
	black := color.RGBA{0, 0, 0, 0}

	gocv.PutText(&frame, overlay, image.Pt(10, 30),
		gocv.FontHersheySimplex, 1, black, 2)
	gocv.PutText(&frame, "Press 'q' to quit", image.Pt(10, frame.Rows()-20),
		gocv.FontHersheySimplex, 0.6, black, 1)

	svc.window.IMShow(frame)
	key := svc.window.WaitKey(1)
	return key == 'q'
}

func (svc *windowService) Close() error {
	return svc.window.Close()
}
