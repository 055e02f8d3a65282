package source

import (
	"gocv.io/x/gocv"
)

type syntheticService struct {
	limit  int
	frames int
	img    gocv.Mat
}

// NewSynthetic generates blank 480x640 frames without any capture device.
// A limit of 0 means unlimited; otherwise the source exhausts after that
// many frames.
func NewSynthetic(limit int) IService {
	return &syntheticService{
		limit: limit,
	}
}

func (svc *syntheticService) Open() error {
	svc.img = gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3) // 480x640 image with 3 channels (BGR)
	return nil
}

func (svc *syntheticService) Next() (gocv.Mat, error) {
	if svc.limit > 0 && svc.frames >= svc.limit {
		return gocv.Mat{}, ErrExhausted
	}
	svc.frames++
	return svc.img, nil
}

func (svc *syntheticService) Name() string {
	return "synthetic"
}

func (svc *syntheticService) Close() error {
	svc.img.Close() // Crucial to close the image to avoid memory leaks
	return nil
}
