package websocket

import (
	"log"
	"net/http"

	"fleet-backend/internal/auth"

	"github.com/gorilla/websocket"
)

// HandleWebSocket upgrades an authenticated request. The session cookie is
// the only credential accepted; origins are checked against allowedOrigins.
func HandleWebSocket(hub *Hub, codec *auth.SessionCodec, allowedOrigins []string) http.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		identity, _, ok := codec.FromRequest(r)
		if !ok {
			log.Println("❌ No valid session for WebSocket connection")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(identity, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()

		log.Printf("✅ WebSocket connection established for user: %s (%s)", identity.Email, client.Key)
	}
}
