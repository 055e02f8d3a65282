package classifier

import (
	"context"
	"errors"

	"gocv.io/x/gocv"

	"github.com/posturelab/pm-go/model"
)

// ErrNoDetections means the service answered but found nothing to classify.
var ErrNoDetections = errors.New("classifier returned no predictions")

// IService is the external classification service. Classify is synchronous
// and may take arbitrarily long; callers must keep it off the capture path.
type IService interface {
	Classify(ctx context.Context, img gocv.Mat) (model.Reading, error)
}
