package kakao

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenithlab/zenith-bot/internal/conversation"
	"github.com/zenithlab/zenith-bot/internal/reply"
)

const (
	maxBodyBytes  = 1 << 20
	internalError = "서버 오류"
	rateLimited   = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
)

// TurnHandler processes one user turn and returns the reply payload.
type TurnHandler func(ctx context.Context, userID string, in conversation.Input) (reply.Payload, error)

// Limiter decides whether a user may be served right now.
type Limiter interface {
	Allow(key string) bool
}

type WebhookHandler struct {
	onTurn  TurnHandler
	limiter Limiter
	log     *zap.Logger
}

type Option func(*WebhookHandler)

// WithLimiter throttles turns per Kakao user id.
func WithLimiter(l Limiter) Option {
	return func(h *WebhookHandler) { h.limiter = l }
}

func NewWebhookHandler(onTurn TurnHandler, log *zap.Logger, opts ...Option) *WebhookHandler {
	h := &WebhookHandler{onTurn: onTurn, log: log.Named("webhook")}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the skill endpoint on r.
func RegisterRoutes(r chi.Router, h *WebhookHandler) {
	r.Post("/webhook", h.HandleSkill)
}

// HandleSkill answers a Kakao skill request synchronously. Any failure is
// logged and reported as a generic 500 without internal detail.
func (h *WebhookHandler) HandleSkill(w http.ResponseWriter, r *http.Request) {
	var req SkillRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.log.Warn("failed to decode skill request", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, internalError)
		return
	}

	// Requests without a user id are answered statelessly and never share
	// a bucket.
	userID := req.UserRequest.User.ID
	if userID != "" && h.limiter != nil && !h.limiter.Allow(userID) {
		h.log.Warn("rate limited", zap.String("user_id", userID))
		WriteError(w, http.StatusTooManyRequests, rateLimited)
		return
	}

	payload, err := h.onTurn(r.Context(), userID, req.Input())
	if err != nil {
		h.log.Error("webhook processing failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		WriteError(w, http.StatusInternalServerError, internalError)
		return
	}

	writeJSON(w, http.StatusOK, NewSkillResponse(payload))
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
