package hub

import (
	"context"
	"net/http"
)

// IService pushes every published reading to connected dashboard clients.
type IService interface {
	// Run owns the client set. It must be started before Broadcast and
	// exits when the context is cancelled.
	Run(ctx context.Context)
	// Broadcast never blocks; messages are dropped when clients lag.
	Broadcast(v interface{})
	// Handler upgrades HTTP requests to websocket subscriptions.
	Handler() http.Handler
}
