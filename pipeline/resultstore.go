package pipeline

import (
	"sync/atomic"

	"github.com/posturelab/pm-go/model"
)

// ResultStore publishes the most recent classification reading to the
// display path. Single writer (the scheduler worker), any number of
// readers. Publish replaces the slot atomically; readers always observe
// a complete reading, never a torn one.
type ResultStore struct {
	latest atomic.Pointer[model.Reading]
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) Publish(reading model.Reading) {
	s.latest.Store(&reading)
}

// Current returns the latest published reading, or false if nothing has
// been published yet.
func (s *ResultStore) Current() (model.Reading, bool) {
	p := s.latest.Load()
	if p == nil {
		return model.Reading{}, false
	}
	return *p, true
}
