package config

type hardcodedService struct {
}

func NewHardCoded() IService {
	return &hardcodedService{}
}

func (svc *hardcodedService) GetModeMaxShutdownTime() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 5
}

func (svc *hardcodedService) GetCaptureDevice() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "0"
}

func (svc *hardcodedService) GetCaptureFPS() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 30
}

func (svc *hardcodedService) GetSyntheticFrameLimit() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 0
}

func (svc *hardcodedService) GetInferenceInterval() float64 {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 0.5
}

func (svc *hardcodedService) GetClassifierEndpoint() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "https://classify.roboflow.com/posture_correction_v4/1"
}

func (svc *hardcodedService) GetClassifierTimeout() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 10
}

func (svc *hardcodedService) GetWindowCapacity() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 30
}

func (svc *hardcodedService) GetAlertCooldown() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 30
}

func (svc *hardcodedService) GetGoodLabel() string {
	// This is model vocabulary, not a system invariant. It must match the
	// label the classification model emits for acceptable posture.
	return "looks good"
}

func (svc *hardcodedService) GetRecordingsFolder() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "./recordings"
}

func (svc *hardcodedService) GetReadingsDBPath() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "./posture_data.db"
}

func (svc *hardcodedService) GetReadingsLogFile() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "readings.log"
}

func (svc *hardcodedService) GetWebhookURL() string {
	// Empty disables the webhook side channel.
	return ""
}

func (svc *hardcodedService) GetHubAddress() string {
	// Empty disables the websocket hub.
	return ""
}
