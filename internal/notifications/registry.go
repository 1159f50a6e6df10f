// Package notifications implements the in-process connection registry that
// pushes pipeline events to connected clients. A recipient may hold several
// live connections (multiple devices); the registry fans a dispatch out to all
// of them and drops connections that fail mid-send.
package notifications

import (
	"log/slog"

	"github.com/puzpuzpuz/xsync/v3"
)

// Connection is one live client channel, e.g. a websocket or SSE stream.
// Send must be safe for concurrent use; a returned error means the connection
// is dead and will be removed from the registry.
type Connection interface {
	ID() string
	Send(eventName string, payload []byte) error
}

// Registry tracks live connections per recipient. All methods are safe for
// concurrent use; dispatches to a recipient with no connections are no-ops.
type Registry struct {
	recipients *xsync.MapOf[int64, *xsync.MapOf[string, Connection]]
	log        *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		recipients: xsync.NewMapOf[int64, *xsync.MapOf[string, Connection]](),
		log:        log,
	}
}

// Register adds a connection for a recipient. Re-registering the same
// connection ID replaces the previous connection.
func (r *Registry) Register(recipientID int64, conn Connection) {
	conns, _ := r.recipients.LoadOrCompute(recipientID, func() *xsync.MapOf[string, Connection] {
		return xsync.NewMapOf[string, Connection]()
	})
	conns.Store(conn.ID(), conn)
}

// Unregister removes a connection. Unknown recipients and already-removed
// connections are no-ops.
func (r *Registry) Unregister(recipientID int64, connID string) {
	if conns, ok := r.recipients.Load(recipientID); ok {
		conns.Delete(connID)
	}
}

// Dispatch pushes an event to every live connection of the recipient.
// A connection whose Send fails is removed so it cannot wedge later
// dispatches; the event itself is not retried, clients catch up through the
// unread feed.
func (r *Registry) Dispatch(recipientID int64, eventName string, payload []byte) {
	conns, ok := r.recipients.Load(recipientID)
	if !ok {
		return
	}

	conns.Range(func(connID string, conn Connection) bool {
		if err := conn.Send(eventName, payload); err != nil {
			conns.Delete(connID)
			r.log.Warn("dropping dead notification connection",
				"recipient_id", recipientID, "conn_id", connID, "err", err)
		}
		return true
	})
}

// ConnectionCount reports the live connections of a recipient.
func (r *Registry) ConnectionCount(recipientID int64) int {
	conns, ok := r.recipients.Load(recipientID)
	if !ok {
		return 0
	}
	return conns.Size()
}
