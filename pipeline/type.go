package pipeline

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"github.com/posturelab/pm-go/service/classifier"
	"github.com/posturelab/pm-go/service/config"
	"github.com/posturelab/pm-go/service/data"
	"github.com/posturelab/pm-go/service/hub"
	"github.com/posturelab/pm-go/service/storage"
	"github.com/posturelab/pm-go/service/webhook"
)

type FrameData struct {
	Mat       gocv.Mat
	Timestamp time.Time
}

type AlertData struct {
	Mat        gocv.Mat
	Label      string
	Confidence float32
	Timestamp  time.Time
}

type ServicesFactory struct {
	CfgSvc        config.IService
	DataSvc       data.IService
	ClassifierSvc classifier.IService
	StorageSvc    storage.IService
	WebhookSvc    webhook.IService
	HubSvc        hub.IService
}

// Signature of alerter function
type Alerter func(canx context.Context, svcs ServicesFactory, errorStream chan interface{}, statsStream chan interface{}) chan AlertData
