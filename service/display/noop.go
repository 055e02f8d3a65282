package display

import "gocv.io/x/gocv"

type noopService struct {
}

// NewNoop discards all frames. Used for headless and synthetic runs.
func NewNoop() IService {
	return &noopService{}
}

func (svc *noopService) Render(_ gocv.Mat, _ string) bool {
	return false
}

func (svc *noopService) Close() error {
	return nil
}
