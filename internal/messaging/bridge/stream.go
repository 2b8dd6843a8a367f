package bridge

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rzclan/warbot/internal/messaging"
)

const (
	reconnectBase = time.Second
	reconnectMax  = 30 * time.Second
)

type eventPayload struct {
	Kind      string `json:"kind"`
	ChatID    string `json:"chat_id"`
	SenderID  string `json:"sender_id"`
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
	JoinedJID string `json:"joined_jid"`
}

// Stream reads inbound events until ctx is cancelled, invoking handle
// for each one. It reconnects with backoff on read failure.
func (c *Client) Stream(ctx context.Context, handle func(messaging.Event)) error {
	backoff := reconnectBase
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := c.dial(ctx)
		if err != nil {
			c.logger.Warn("bridge stream dial failed", "error", err)
		} else {
			backoff = reconnectBase
			c.readEvents(ctx, conn, handle)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, reconnectMax)
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/events"
	header := make(map[string][]string)
	if c.token != "" {
		header["Authorization"] = []string{"Bearer " + c.token}
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxEventSize)
	return conn, nil
}

func (c *Client) readEvents(ctx context.Context, conn *websocket.Conn, handle func(messaging.Event)) {
	defer conn.Close()

	// unblock ReadMessage on shutdown
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("bridge stream read failed", "error", err)
			}
			return
		}

		var payload eventPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			c.logger.Warn("bridge event decode failed", "error", err)
			continue
		}

		kind := messaging.EventKind(payload.Kind)
		if kind != messaging.EventMessage && kind != messaging.EventMemberJoined {
			continue
		}
		handle(messaging.Event{
			Kind:      kind,
			ChatID:    payload.ChatID,
			SenderID:  payload.SenderID,
			MessageID: payload.MessageID,
			Text:      payload.Text,
			JoinedJID: payload.JoinedJID,
		})
	}
}
