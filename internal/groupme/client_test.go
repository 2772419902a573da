package groupme

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dugout-labs/teambot/internal/config"
	"github.com/dugout-labs/teambot/pkg/logger"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newStubClient(cfg *config.Config, fn roundTripFunc) *Client {
	c := NewClient(cfg, logger.NewNop())
	c.client = &http.Client{Transport: fn}
	return c
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestSendMessage(t *testing.T) {
	cfg := &config.Config{GroupMeBotID: "bot-1"}

	var posted string
	c := newStubClient(cfg, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "https://api.groupme.com/v3/bots/post", r.URL.String())
		body, _ := io.ReadAll(r.Body)
		posted = string(body)
		return jsonResponse(http.StatusCreated, ""), nil
	})

	require.NoError(t, c.SendMessage(context.Background(), "go team"))
	assert.Contains(t, posted, `"bot_id":"bot-1"`)
	assert.Contains(t, posted, `"text":"go team"`)
}

func TestSendMessageAPIError(t *testing.T) {
	c := newStubClient(&config.Config{GroupMeBotID: "bot-1"}, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, "upstream broke"), nil
	})

	err := c.SendMessage(context.Background(), "go team")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream broke")
}

func TestListMessages(t *testing.T) {
	cfg := &config.Config{GroupMeAccessToken: "tok", GroupMeGroupID: "g1"}

	c := newStubClient(cfg, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/v3/groups/g1/messages", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		return jsonResponse(http.StatusOK,
			`{"response":{"messages":[{"id":"m1","text":"hi","sender_type":"bot"}]}}`), nil
	})

	msgs, err := c.ListMessages(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "bot", msgs[0].SenderType)
}

func TestDeleteMessage(t *testing.T) {
	cfg := &config.Config{GroupMeAccessToken: "tok", GroupMeGroupID: "g1"}

	c := newStubClient(cfg, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v3/conversations/g1/messages/m1", r.URL.Path)
		return jsonResponse(http.StatusNoContent, ""), nil
	})

	assert.NoError(t, c.DeleteMessage(context.Background(), "m1"))
}

func TestMessageAccessRequiresToken(t *testing.T) {
	c := NewClient(&config.Config{GroupMeGroupID: "g1"}, logger.NewNop())
	_, err := c.ListMessages(context.Background(), 10, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROUPME_ACCESS_TOKEN")

	c = NewClient(&config.Config{GroupMeAccessToken: "tok"}, logger.NewNop())
	err = c.DeleteMessage(context.Background(), "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROUPME_GROUP_ID")
}
