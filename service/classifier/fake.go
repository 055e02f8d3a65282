package classifier

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"github.com/posturelab/pm-go/model"
)

type fakeService struct {
	label      string
	confidence float32
}

// NewFake returns a classifier that always answers with the given label.
// Useful for simulation runs and tests.
func NewFake(label string, confidence float32) IService {
	return &fakeService{
		label:      label,
		confidence: confidence,
	}
}

func (svc *fakeService) Classify(_ context.Context, _ gocv.Mat) (model.Reading, error) {
	return model.Reading{
		Label:      svc.label,
		Confidence: svc.confidence,
		ObservedAt: time.Now(),
	}, nil
}
