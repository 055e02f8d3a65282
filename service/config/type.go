package config

type IService interface {
	GetModeMaxShutdownTime() int // seconds

	GetCaptureDevice() string // webcam index, stream URL or "synthetic"
	GetCaptureFPS() int
	GetSyntheticFrameLimit() int // 0 means unlimited

	GetInferenceInterval() float64 // seconds between classifier calls
	GetClassifierEndpoint() string
	GetClassifierTimeout() int // seconds

	GetWindowCapacity() int
	GetAlertCooldown() int // seconds
	GetGoodLabel() string

	GetRecordingsFolder() string
	GetReadingsDBPath() string
	GetReadingsLogFile() string
	GetWebhookURL() string
	GetHubAddress() string // empty disables the websocket hub
}
