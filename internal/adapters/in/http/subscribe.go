package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// sseBufferSize bounds the per-connection push backlog. A client that cannot
// keep up gets dropped by the registry and catches up via the unread feed.
const sseBufferSize = 64

type ssePush struct {
	eventName string
	payload   []byte
}

// sseConnection adapts one server-sent-events stream to the notification
// registry's connection contract. Send never blocks the dispatching goroutine.
type sseConnection struct {
	id string
	ch chan ssePush
}

func newSSEConnection() *sseConnection {
	return &sseConnection{
		id: uuid.NewString(),
		ch: make(chan ssePush, sseBufferSize),
	}
}

func (c *sseConnection) ID() string { return c.id }

func (c *sseConnection) Send(eventName string, payload []byte) error {
	select {
	case c.ch <- ssePush{eventName: eventName, payload: payload}:
		return nil
	default:
		return errors.New("connection backlog full")
	}
}

// SubscribeNotifications handles GET /api/v1/notifications/subscribe.
// It registers a live connection for the recipient and streams pushes as
// server-sent events until the client disconnects.
func (s *Server) SubscribeNotifications(ctx echo.Context) error {
	recipientID, err := queryID(ctx, "recipient_id")
	if err != nil {
		return writeBindError(ctx)
	}

	conn := newSSEConnection()
	s.registry.Register(recipientID, conn)
	defer s.registry.Unregister(recipientID, conn.id)

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case push := <-conn.ch:
			if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", push.eventName, push.payload); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
