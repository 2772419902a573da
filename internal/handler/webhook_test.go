package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dugout-labs/teambot/internal/conversation"
	"github.com/dugout-labs/teambot/internal/intent"
	"github.com/dugout-labs/teambot/internal/parser"
	"github.com/dugout-labs/teambot/pkg/logger"
)

func newTestWebhookHandler() *WebhookHandler {
	classifier := intent.NewClassifier("PirateBot", nil, nil)
	contexts := conversation.NewStore(30*time.Minute, nil)
	p := parser.New("PirateBot", "Pirates", classifier, contexts)
	return NewWebhookHandler(p, nil, "fallback", logger.NewNop())
}

func postWebhook(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)
	return rec
}

func TestReceiveRejectsBadJSON(t *testing.T) {
	h := newTestWebhookHandler()

	rec := postWebhook(t, h, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid JSON"}`, rec.Body.String())
}

func TestReceiveSkipsBotMessages(t *testing.T) {
	h := newTestWebhookHandler()

	rec := postWebhook(t, h, `{"text":"@PirateBot help","sender_type":"bot","name":"PirateBot"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReceiveIgnoresUnaddressedMessages(t *testing.T) {
	h := newTestWebhookHandler()

	rec := postWebhook(t, h, `{"text":"anyone want pizza?","sender_type":"user","name":"Dave","user_id":"u1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
