package hub

import (
	"context"
	"net/http"
)

type fakeService struct {
}

// NewFake is used when the hub address is not configured.
func NewFake() IService {
	return &fakeService{}
}

func (svc *fakeService) Run(_ context.Context) {
}

func (svc *fakeService) Broadcast(_ interface{}) {
}

func (svc *fakeService) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "hub disabled", http.StatusNotFound)
	})
}
