package storage

import (
	"fmt"
	"os"
	"time"

	"gocv.io/x/gocv"

	"github.com/posturelab/pm-go/service/config"
)

type filesService struct {
	cfgSvc config.IService
}

// NewFiles stores snapshots as JPEGs under the recordings folder.
func NewFiles(cfgsvc config.IService) IService {
	return &filesService{
		cfgSvc: cfgsvc,
	}
}

func (svc *filesService) StoreSnapshot(prefix string, img gocv.Mat) (string, error) {
	folder := svc.cfgSvc.GetRecordingsFolder()
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("error creating recordings folder: %w", err)
	}

	path := fmt.Sprintf("%s/%s_alerted_frame_%d.jpg", folder, prefix, time.Now().UnixNano())
	if ok := gocv.IMWrite(path, img); !ok {
		return "", fmt.Errorf("error writing snapshot %s", path)
	}

	return path, nil
}
