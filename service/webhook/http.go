package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/posturelab/pm-go/service/config"
)

type httpService struct {
	cfgSvc config.IService
	client *http.Client
}

// NewHTTP posts alert payloads as JSON to the configured webhook URL.
// An empty URL turns posting into a no-op.
func NewHTTP(cfgsvc config.IService) IService {
	return &httpService{
		cfgSvc: cfgsvc,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (svc *httpService) Post(payload map[string]interface{}) error {
	url := svc.cfgSvc.GetWebhookURL()
	if url == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling webhook payload: %w", err)
	}

	resp, err := svc.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("error posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
