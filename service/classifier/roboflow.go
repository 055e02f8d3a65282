package classifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"github.com/posturelab/pm-go/model"
	"github.com/posturelab/pm-go/service/config"
)

// Response shape of the hosted classification API. Classification projects
// nest per-image predictions inside the top-level prediction list.
type roboflowResponse struct {
	Predictions []struct {
		Predictions []struct {
			Class      string  `json:"class"`
			Confidence float32 `json:"confidence"`
		} `json:"predictions"`
	} `json:"predictions"`
}

type roboflowService struct {
	cfgSvc config.IService
	apiKey string
	client *http.Client
}

func NewRoboflow(cfgsvc config.IService, apiKey string) IService {
	return &roboflowService{
		cfgSvc: cfgsvc,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: time.Duration(cfgsvc.GetClassifierTimeout()) * time.Second,
		},
	}
}

func (svc *roboflowService) Classify(ctx context.Context, img gocv.Mat) (model.Reading, error) {
	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return model.Reading{}, fmt.Errorf("error encoding frame: %w", err)
	}
	defer buf.Close()

	encoded := base64.StdEncoding.EncodeToString(buf.GetBytes())
	url := fmt.Sprintf("%s?api_key=%s", svc.cfgSvc.GetClassifierEndpoint(), svc.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(encoded))
	if err != nil {
		return model.Reading{}, fmt.Errorf("error building classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := svc.client.Do(req)
	if err != nil {
		return model.Reading{}, fmt.Errorf("error calling classifier: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Reading{}, fmt.Errorf("error reading classifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return model.Reading{}, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed roboflowResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.Reading{}, fmt.Errorf("malformed classifier response: %w", err)
	}

	if len(parsed.Predictions) == 0 || len(parsed.Predictions[0].Predictions) == 0 {
		return model.Reading{}, ErrNoDetections
	}

	// Predictions come back ordered by confidence; take the top one
	top := parsed.Predictions[0].Predictions[0]
	return model.Reading{
		Label:      top.Class,
		Confidence: top.Confidence,
		ObservedAt: time.Now(),
	}, nil
}
