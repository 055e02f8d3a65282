package source

import (
	"fmt"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/posturelab/pm-go/service/config"
)

type webcamService struct {
	device string
	cap    *gocv.VideoCapture
	img    gocv.Mat
}

// NewWebcam captures from a local camera index or a stream URL.
func NewWebcam(cfgsvc config.IService) IService {
	return &webcamService{
		device: cfgsvc.GetCaptureDevice(),
	}
}

func (svc *webcamService) Open() error {
	var cap *gocv.VideoCapture
	var err error

	// A numeric device string is a local camera index
	if idx, convErr := strconv.Atoi(svc.device); convErr == nil {
		cap, err = gocv.OpenVideoCapture(idx)
	} else {
		cap, err = gocv.OpenVideoCapture(svc.device)
	}
	if err != nil {
		return fmt.Errorf("error opening capture device %s: %w", svc.device, err)
	}

	// Keep the driver buffer shallow so reads stay close to live
	cap.Set(gocv.VideoCaptureBufferSize, 1)

	svc.cap = cap
	svc.img = gocv.NewMat()
	return nil
}

func (svc *webcamService) Next() (gocv.Mat, error) {
	if ok := svc.cap.Read(&svc.img); !ok {
		return gocv.Mat{}, ErrExhausted
	}
	if svc.img.Empty() {
		return gocv.Mat{}, ErrRead
	}
	return svc.img, nil
}

func (svc *webcamService) Name() string {
	return svc.device
}

func (svc *webcamService) Close() error {
	if svc.cap == nil {
		return nil
	}
	svc.img.Close() // Crucial to close the image to avoid memory leaks
	return svc.cap.Close()
}
