package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/posturelab/pm-go/service/lgr"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true // Dashboard runs on a different origin in dev
	},
}

type websocketService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

func NewWebsocket() IService {
	return &websocketService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 100),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (svc *websocketService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range svc.clients {
				client.Close()
			}
			lgr.Logger.Info("hub context cancelled")
			return

		case client := <-svc.register:
			svc.clients[client] = true
			lgr.Logger.Info(
				"hub client connected",
				slog.Int("total", len(svc.clients)),
			)

		case client := <-svc.unregister:
			if _, ok := svc.clients[client]; ok {
				delete(svc.clients, client)
				client.Close()
			}
			lgr.Logger.Info(
				"hub client disconnected",
				slog.Int("total", len(svc.clients)),
			)

		case message := <-svc.broadcast:
			for client := range svc.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					delete(svc.clients, client)
					client.Close()
				}
			}
		}
	}
}

func (svc *websocketService) Broadcast(v interface{}) {
	message, err := json.Marshal(v)
	if err != nil {
		lgr.Logger.Error(
			"hub failed to marshal broadcast",
			slog.Any("error", err),
		)
		return
	}

	select {
	case svc.broadcast <- message:
	default:
		// Drop rather than stall the producer
	}
}

func (svc *websocketService) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			lgr.Logger.Error(
				"hub upgrade failed",
				slog.Any("error", err),
			)
			return
		}

		svc.register <- conn

		// Drain (and ignore) client messages to detect disconnects
		go func() {
			defer func() { svc.unregister <- conn }()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})
}
