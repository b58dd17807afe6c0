package feed

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/deep-thoughts/backend/internal/common/logger"
)

// Handler upgrades the request and subscribes the connection to the
// thought feed. The feed carries only public data, so there is no auth
// gate here, same as the public thought lookups.
func Handler(h *Hub, log *logger.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("feed: upgrade failed: %v", err)
			return
		}

		c := &client{
			conn: conn,
			send: make(chan []byte, sendBufferSize),
		}

		h.register(c)
		log.Debugf("feed: client connected, total=%d", h.ClientCount())

		go c.writePump()
		go c.readPump(h)
	}
}
