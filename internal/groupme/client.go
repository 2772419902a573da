// Package groupme wraps the GroupMe bot and group message APIs.
package groupme

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dugout-labs/teambot/internal/config"
	"github.com/dugout-labs/teambot/internal/model"
	"github.com/dugout-labs/teambot/pkg/logger"
	"github.com/dugout-labs/teambot/pkg/metrics"
)

const apiBase = "https://api.groupme.com/v3"

// Client posts bot messages and, when an access token is configured,
// lists and deletes group messages.
type Client struct {
	client *http.Client
	cfg    *config.Config
	log    *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		client: &http.Client{Timeout: 10 * time.Second},
		cfg:    cfg,
		log:    log,
	}
}

// SendMessage posts text to the group through the bot endpoint.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(model.PostMessage{
		BotID: c.cfg.GroupMeBotID,
		Text:  text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"/bots/post",
		bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Info("sending message to group", zap.Int("length", len(text)))

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.OutboundPostsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		metrics.OutboundPostsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("GroupMe API returned %s: %s", resp.Status, string(body))
	}

	metrics.OutboundPostsTotal.WithLabelValues("success").Inc()
	return nil
}

type messagesResponse struct {
	Response struct {
		Messages []model.MessageInfo `json:"messages"`
	} `json:"response"`
}

// ListMessages fetches recent group messages, newest first. beforeID
// may be empty to start from the most recent message.
func (c *Client) ListMessages(ctx context.Context, limit int, beforeID string) ([]model.MessageInfo, error) {
	if err := c.requireMessageAccess(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("token", c.cfg.GroupMeAccessToken)
	q.Set("limit", strconv.Itoa(limit))
	if beforeID != "" {
		q.Set("before_id", beforeID)
	}

	u := fmt.Sprintf("%s/groups/%s/messages?%s", apiBase, c.cfg.GroupMeGroupID, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GroupMe API returned %s: %s", resp.Status, string(body))
	}

	var data messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode messages response: %w", err)
	}

	c.log.Debug("fetched group messages", zap.Int("count", len(data.Response.Messages)))
	return data.Response.Messages, nil
}

// DeleteMessage removes a single message from the group.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	if err := c.requireMessageAccess(); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/conversations/%s/messages/%s?token=%s",
		apiBase, c.cfg.GroupMeGroupID, messageID, url.QueryEscape(c.cfg.GroupMeAccessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	c.log.Info("deleting group message", zap.String("message_id", messageID))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GroupMe API returned %s: %s", resp.Status, string(body))
	}
	return nil
}

func (c *Client) requireMessageAccess() error {
	if c.cfg.GroupMeAccessToken == "" {
		return fmt.Errorf("GROUPME_ACCESS_TOKEN not configured")
	}
	if c.cfg.GroupMeGroupID == "" {
		return fmt.Errorf("GROUPME_GROUP_ID not configured")
	}
	return nil
}
