// Package bridge talks to the WhatsApp bridge process. Inbound events
// arrive over a websocket stream; outbound operations go over the
// bridge's REST API.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rzclan/warbot/internal/messaging"
)

const (
	defaultRequestTimeout = 15 * time.Second
	maxEventSize          = 1 << 20
)

// Client implements messaging.Client against the bridge REST API and
// exposes the inbound event stream
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

var _ messaging.Client = (*Client)(nil)

func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultRequestTimeout},
		logger:  logger,
	}
}

type sendRequest struct {
	ChatID   string   `json:"chat_id"`
	Text     string   `json:"text"`
	Mentions []string `json:"mentions,omitempty"`
	QuoteID  string   `json:"quote_id,omitempty"`
}

type memberPayload struct {
	JID     string `json:"jid"`
	IsAdmin bool   `json:"is_admin"`
}

type groupMembersResponse struct {
	Members []memberPayload `json:"members"`
}

type listGroupsResponse struct {
	Groups []string `json:"groups"`
}

func (c *Client) Send(ctx context.Context, chatID string, msg messaging.OutgoingMessage) error {
	body := sendRequest{
		ChatID:   chatID,
		Text:     msg.Text,
		Mentions: msg.Mentions,
		QuoteID:  msg.QuoteID,
	}
	return c.post(ctx, "/messages", body, nil)
}

func (c *Client) GroupMembers(ctx context.Context, groupID string) ([]messaging.Member, error) {
	var resp groupMembersResponse
	if err := c.get(ctx, "/groups/"+url.PathEscape(groupID)+"/members", &resp); err != nil {
		return nil, err
	}
	members := make([]messaging.Member, len(resp.Members))
	for i, m := range resp.Members {
		members[i] = messaging.Member{JID: m.JID, IsAdmin: m.IsAdmin}
	}
	return members, nil
}

func (c *Client) ListGroups(ctx context.Context) ([]string, error) {
	var resp listGroupsResponse
	if err := c.get(ctx, "/groups", &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

func (c *Client) RemoveFromGroup(ctx context.Context, groupID, jid string) error {
	path := "/groups/" + url.PathEscape(groupID) + "/members/" + url.PathEscape(jid)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bridge: %s %s returned %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, string(snippet))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
