// Package handler exposes the bot's HTTP endpoints.
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dugout-labs/teambot/internal/middleware"
	"github.com/dugout-labs/teambot/internal/model"
	"github.com/dugout-labs/teambot/internal/parser"
	"github.com/dugout-labs/teambot/internal/service"
	"github.com/dugout-labs/teambot/pkg/logger"
	"github.com/dugout-labs/teambot/pkg/metrics"
)

// WebhookHandler receives GroupMe message callbacks, runs the parser
// and posts the bot's reply back to the group.
type WebhookHandler struct {
	parser        *parser.Parser
	svc           *service.BotService
	fallbackReply string
	logger        *logger.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(p *parser.Parser, svc *service.BotService, fallbackReply string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		parser:        p,
		svc:           svc,
		fallbackReply: fallbackReply,
		logger:        log,
	}
}

// Receive handles POST /webhook. The response status only tells
// GroupMe whether the payload was readable; all user-facing outcomes
// travel through the outbound message post.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithMessage(middleware.GetCorrelationID(ctx), "")

	var msg model.InboundMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		log.Warn("failed to parse webhook payload", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// The bot's own posts come back through the webhook too
	if msg.SenderType == "bot" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	log = h.logger.WithMessage(middleware.GetCorrelationID(ctx), msg.UserID)
	log.Info("received message",
		zap.String("sender", msg.Name), zap.Int("length", len(msg.Text)))

	cmd, err := h.parser.Parse(msg.Text, msg.Name, msg.UserID, msg.Attachments)
	if err != nil {
		if reply, ok := model.AsReply(err); ok {
			// Conversational outcome, not a fault
			log.Info("sending conversational reply")
			metrics.MessagesTotal.WithLabelValues("conversational").Inc()
			if sendErr := h.svc.SendResponse(ctx, reply.Text); sendErr != nil {
				log.Error("failed to send conversational reply", zap.Error(sendErr))
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		log.Error("parse failed", zap.Error(err))
		metrics.MessagesTotal.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if cmd == nil {
		// Not directed at the bot
		metrics.MessagesTotal.WithLabelValues("ignored").Inc()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	response, err := h.svc.HandleCommand(ctx, cmd, msg.Name, msg.UserID)
	if err != nil {
		if reply, ok := model.AsReply(err); ok {
			response = reply.Text
		} else {
			log.Error("failed to handle command",
				zap.String("kind", string(cmd.Kind)), zap.Error(err))
			metrics.MessagesTotal.WithLabelValues("error").Inc()
			response = h.fallbackReply
		}
	} else {
		metrics.MessagesTotal.WithLabelValues("handled").Inc()
	}

	if err := h.svc.SendResponse(ctx, response); err != nil {
		log.Error("failed to send response", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
