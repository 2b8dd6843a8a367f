// Package conversation drives every multi-turn dialog: registration,
// profile update, guided points entry, ambiguous-choice resolution and
// destructive-action confirmation. One session per user, owned by the
// session store.
package conversation

import (
	"context"
	"log/slog"

	"github.com/rzclan/warbot/internal/dependencies/clock"
	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/services/resolver"
	"github.com/rzclan/warbot/internal/services/roster"
	"github.com/rzclan/warbot/internal/services/session"
	"github.com/rzclan/warbot/internal/services/warning"
	"github.com/rzclan/warbot/internal/storage"
)

type Service struct {
	logger   *slog.Logger
	storage  storage.Storage
	client   messaging.Client
	clock    clock.Clock
	sessions *session.Store
	resolver *resolver.Resolver
	roster   *roster.Service
	warnings *warning.Engine
}

func New(
	logger *slog.Logger,
	store storage.Storage,
	client messaging.Client,
	clk clock.Clock,
	sessions *session.Store,
	res *resolver.Resolver,
	rosterSvc *roster.Service,
	warnings *warning.Engine,
) *Service {
	return &Service{
		logger:   logger,
		storage:  store,
		client:   client,
		clock:    clk,
		sessions: sessions,
		resolver: res,
		roster:   rosterSvc,
		warnings: warnings,
	}
}

// Active reports whether the user has a session in flight
func (s *Service) Active(userID string) bool {
	_, ok := s.sessions.Get(userID)
	return ok
}

// Cancel ends the user's session, if any, and acknowledges. Reports
// whether a session existed.
func (s *Service) Cancel(ctx context.Context, userID, chatID string) bool {
	if !s.sessions.End(userID) {
		return false
	}
	s.reply(ctx, chatID, "Operação cancelada.")
	return true
}

// HandleMessage advances the user's active session by one step. The
// caller guarantees a session exists.
func (s *Service) HandleMessage(ctx context.Context, userID, chatID, text string) {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		return
	}
	s.sessions.Touch(userID)

	switch sess.Step {
	case model.StepNewPlayerName,
		model.StepNewPlayerLevel,
		model.StepNewPlayerTower,
		model.StepNewPlayerTrophies,
		model.StepNewPlayerNaval:
		s.handleRegistrationStep(ctx, sess, text)

	case model.StepUpdateLevel,
		model.StepUpdateTower,
		model.StepUpdateTrophies,
		model.StepUpdateNaval:
		s.handleUpdateStep(ctx, sess, text)

	case model.StepMenuChoice,
		model.StepDayChoice,
		model.StepPointsInput,
		model.StepConfirmation:
		s.handlePointsStep(ctx, sess, text)

	case model.StepAmbiguousPunish,
		model.StepAmbiguousEdit,
		model.StepAmbiguousRemove:
		s.handleAmbiguousChoice(ctx, sess, text)

	case model.StepEditConfirmation:
		s.handleEditConfirmation(ctx, sess, text)

	case model.StepRemoveConfirmation:
		s.handleRemoveConfirmation(ctx, sess, text)

	default:
		s.logger.Warn("invalid conversation step", "user", userID, "step", sess.Step)
		s.endWith(ctx, sess, "🤔 Estado de conversa inválido. A operação foi cancelada para segurança.")
	}
}

func (s *Service) reply(ctx context.Context, chatID, text string) {
	if err := s.client.Send(ctx, chatID, messaging.OutgoingMessage{Text: text}); err != nil {
		s.logger.Error("reply failed", "chat", chatID, "error", err)
	}
}

// endWith removes the session and sends a final message
func (s *Service) endWith(ctx context.Context, sess *session.Session, text string) {
	s.sessions.End(sess.UserID)
	if text != "" {
		s.reply(ctx, sess.ChatID, text)
	}
}
