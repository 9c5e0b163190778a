package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one user's websocket connection.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	// OnTyping receives inbound typing signals for relay.
	OnTyping func(signal TypingSignal)
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}
}

// ReadPump consumes inbound frames until the connection drops. Only
// ephemeral frame types are accepted from clients; entity mutations go
// through the HTTP API.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Websocket read error for %s: %v", c.UserID, err)
			}
			break
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Printf("Malformed frame from %s: %v", c.UserID, err)
			continue
		}

		switch frame.Type {
		case FramePing:
			pong, _ := json.Marshal(Frame{Type: FramePong, Timestamp: time.Now().Format(time.RFC3339)})
			select {
			case c.Send <- pong:
			default:
			}

		case FrameTyping:
			if c.OnTyping == nil {
				continue
			}
			data, err := json.Marshal(frame.Data)
			if err != nil {
				continue
			}
			var signal TypingSignal
			if err := json.Unmarshal(data, &signal); err != nil {
				log.Printf("Malformed typing signal from %s: %v", c.UserID, err)
				continue
			}
			signal.UserID = c.UserID
			c.OnTyping(signal)

		default:
			log.Printf("Ignoring frame type %q from %s", frame.Type, c.UserID)
		}
	}
}

// WritePump drains the send channel to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		frame, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			log.Printf("Websocket write error for %s: %v", c.UserID, err)
			return
		}
	}
}
