package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileSettings struct {
	ModeMaxShutdownTime int     `yaml:"modeMaxShutdownTime"`
	CaptureDevice       string  `yaml:"captureDevice"`
	CaptureFPS          int     `yaml:"captureFps"`
	SyntheticFrameLimit int     `yaml:"syntheticFrameLimit"`
	InferenceInterval   float64 `yaml:"inferenceInterval"`
	ClassifierEndpoint  string  `yaml:"classifierEndpoint"`
	ClassifierTimeout   int     `yaml:"classifierTimeout"`
	WindowCapacity      int     `yaml:"windowCapacity"`
	AlertCooldown       int     `yaml:"alertCooldown"`
	GoodLabel           string  `yaml:"goodLabel"`
	RecordingsFolder    string  `yaml:"recordingsFolder"`
	ReadingsDBPath      string  `yaml:"readingsDbPath"`
	ReadingsLogFile     string  `yaml:"readingsLogFile"`
	WebhookURL          string  `yaml:"webhookUrl"`
	HubAddress          string  `yaml:"hubAddress"`
}

type fileService struct {
	settings fileSettings
	defaults IService
}

// NewFile loads settings from a YAML file. Options that are absent
// fall back to the hardcoded defaults.
func NewFile(path string) (IService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var settings fileSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	return &fileService{
		settings: settings,
		defaults: NewHardCoded(),
	}, nil
}

func (svc *fileService) GetModeMaxShutdownTime() int {
	if svc.settings.ModeMaxShutdownTime <= 0 {
		return svc.defaults.GetModeMaxShutdownTime()
	}
	return svc.settings.ModeMaxShutdownTime
}

func (svc *fileService) GetCaptureDevice() string {
	if svc.settings.CaptureDevice == "" {
		return svc.defaults.GetCaptureDevice()
	}
	return svc.settings.CaptureDevice
}

func (svc *fileService) GetCaptureFPS() int {
	if svc.settings.CaptureFPS <= 0 {
		return svc.defaults.GetCaptureFPS()
	}
	return svc.settings.CaptureFPS
}

func (svc *fileService) GetSyntheticFrameLimit() int {
	if svc.settings.SyntheticFrameLimit <= 0 {
		return svc.defaults.GetSyntheticFrameLimit()
	}
	return svc.settings.SyntheticFrameLimit
}

func (svc *fileService) GetInferenceInterval() float64 {
	if svc.settings.InferenceInterval <= 0 {
		return svc.defaults.GetInferenceInterval()
	}
	return svc.settings.InferenceInterval
}

func (svc *fileService) GetClassifierEndpoint() string {
	if svc.settings.ClassifierEndpoint == "" {
		return svc.defaults.GetClassifierEndpoint()
	}
	return svc.settings.ClassifierEndpoint
}

func (svc *fileService) GetClassifierTimeout() int {
	if svc.settings.ClassifierTimeout <= 0 {
		return svc.defaults.GetClassifierTimeout()
	}
	return svc.settings.ClassifierTimeout
}

func (svc *fileService) GetWindowCapacity() int {
	if svc.settings.WindowCapacity <= 0 {
		return svc.defaults.GetWindowCapacity()
	}
	return svc.settings.WindowCapacity
}

func (svc *fileService) GetAlertCooldown() int {
	if svc.settings.AlertCooldown <= 0 {
		return svc.defaults.GetAlertCooldown()
	}
	return svc.settings.AlertCooldown
}

func (svc *fileService) GetGoodLabel() string {
	if svc.settings.GoodLabel == "" {
		return svc.defaults.GetGoodLabel()
	}
	return svc.settings.GoodLabel
}

func (svc *fileService) GetRecordingsFolder() string {
	if svc.settings.RecordingsFolder == "" {
		return svc.defaults.GetRecordingsFolder()
	}
	return svc.settings.RecordingsFolder
}

func (svc *fileService) GetReadingsDBPath() string {
	if svc.settings.ReadingsDBPath == "" {
		return svc.defaults.GetReadingsDBPath()
	}
	return svc.settings.ReadingsDBPath
}

func (svc *fileService) GetReadingsLogFile() string {
	if svc.settings.ReadingsLogFile == "" {
		return svc.defaults.GetReadingsLogFile()
	}
	return svc.settings.ReadingsLogFile
}

func (svc *fileService) GetWebhookURL() string {
	return svc.settings.WebhookURL
}

func (svc *fileService) GetHubAddress() string {
	return svc.settings.HubAddress
}
