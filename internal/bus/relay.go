package bus

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Relay is the process-wide broadcast hub: a websocket server that
// echoes every inbound frame to every connected window, the sender
// included. It never inspects frame contents.
type Relay struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	// writeMu serializes broadcasts; concurrent writers on one
	// websocket connection are not allowed.
	writeMu sync.Mutex
}

// NewRelay creates an empty relay hub.
func NewRelay(log *slog.Logger) *Relay {
	if log == nil {
		log = slog.Default()
	}
	return &Relay{
		log: log,
		upgrader: websocket.Upgrader{
			// Windows connect from app shells, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler upgrades requests and pumps frames until the peer disconnects.
func (r *Relay) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := r.upgrader.Upgrade(w, req, nil)
		if err != nil {
			r.log.Warn("upgrade failed", "error", err)
			return
		}
		r.add(conn)
		defer r.remove(conn)

		r.log.Info("window connected", "remote", conn.RemoteAddr().String())
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				r.log.Info("window disconnected", "remote", conn.RemoteAddr().String())
				return
			}
			r.broadcast(msgType, data)
		}
	})
}

// ListenAndServe runs the relay on addr with the hub mounted at /bus.
func (r *Relay) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/bus", r.Handler())
	r.log.Info("relay listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

func (r *Relay) add(conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn] = struct{}{}
}

func (r *Relay) remove(conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, conn)
	_ = conn.Close()
}

// broadcast writes the frame to every connection, dropping peers whose
// writes fail.
func (r *Relay) broadcast(msgType int, data []byte) {
	r.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(r.conns))
	for conn := range r.conns {
		conns = append(conns, conn)
	}
	r.mu.Unlock()

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	for _, conn := range conns {
		if err := conn.WriteMessage(msgType, data); err != nil {
			r.remove(conn)
		}
	}
}
