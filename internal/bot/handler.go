package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zenithlab/zenith-bot/internal/conversation"
	"github.com/zenithlab/zenith-bot/internal/reply"
	"github.com/zenithlab/zenith-bot/internal/session"
	"github.com/zenithlab/zenith-bot/internal/store"
)

// Handler runs one conversation turn: load the user's session, route the
// input, persist the new session and return the reply.
type Handler struct {
	store  store.Store
	router *conversation.Router
	locks  *session.Manager
	log    *zap.Logger
	now    func() time.Time
}

func NewHandler(s store.Store, router *conversation.Router, locks *session.Manager, log *zap.Logger) *Handler {
	return &Handler{
		store:  s,
		router: router,
		locks:  locks,
		log:    log.Named("bot"),
		now:    time.Now,
	}
}

func (h *Handler) HandleMessage(ctx context.Context, userID string, in conversation.Input) (reply.Payload, error) {
	h.log.Info("message received",
		zap.String("user_id", userID),
		zap.String("utterance", in.Utterance),
		zap.Any("extra", in.Extra),
	)

	// Without an id there is nothing to key the session on; answer as a
	// first contact and keep nothing.
	if userID == "" {
		h.log.Warn("message without user id")
		_, payload := h.router.Route(conversation.NewSession(""), in)
		return payload, nil
	}

	var payload reply.Payload
	err := h.locks.WithLock(userID, func() error {
		current, err := h.store.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}

		next, p := h.router.Route(current, in)
		next.UserID = userID
		next.UpdatedAt = h.now()

		if err := h.store.Put(ctx, next); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		if current.Step != next.Step {
			h.log.Debug("step changed",
				zap.String("user_id", userID),
				zap.String("from", string(current.Step)),
				zap.String("to", string(next.Step)),
			)
		}
		h.log.Debug("reply",
			zap.String("user_id", userID),
			zap.Strings("texts", p.Texts()),
			zap.Int("blocks", len(p)),
		)
		payload = p
		return nil
	})
	if err != nil {
		h.log.Error("turn failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return payload, nil
}
