// Package conversation implements the per-conversation state machine that
// asks for a place, looks its forecast up and answers with rendered reports.
package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"weather-bot/internal/models"
	"weather-bot/internal/repositories"
	"weather-bot/pkg/logger"
)

// Formatter turns a forecast into report text.
type Formatter interface {
	Format(record *models.ForecastRecord, slot models.TimeSlot) (string, error)
}

// Renderer turns report text into an image.
type Renderer interface {
	Render(text string) ([]byte, error)
}

// Message is one inbound chat line.
type Message struct {
	ConversationID string
	Text           string
}

// Reply is what the transport sends back: either Text (optionally with
// keyboard Choices) or an Image, never both.
type Reply struct {
	Text    string
	Choices [][]string
	Image   []byte
}

type Service struct {
	weather   repositories.ForecastRepository
	sessions  repositories.SessionRepository
	formatter Formatter
	renderer  Renderer
	locale    Locale
	locks     *sessionLocks
	routes    []route
	now       func() time.Time
	l         *logger.Logger
}

func NewService(
	weather repositories.ForecastRepository,
	sessions repositories.SessionRepository,
	formatter Formatter,
	renderer Renderer,
	locale Locale,
	l *logger.Logger,
) *Service {
	s := &Service{
		weather:   weather,
		sessions:  sessions,
		formatter: formatter,
		renderer:  renderer,
		locale:    locale,
		locks:     newSessionLocks(),
		now:       time.Now,
		l:         l,
	}
	s.routes = s.dispatchTable()
	return s
}

// HandleMessage runs one inbound message through the state machine.
// A nil reply with a nil error means the message was ignored.
func (s *Service) HandleMessage(ctx context.Context, msg Message) (*Reply, error) {
	unlock, err := s.locks.Lock(ctx, msg.ConversationID)
	if err != nil {
		return nil, errors.Wrap(err, "wait for conversation")
	}
	defer unlock()

	l := s.l.With(map[string]any{
		"conversation_id": msg.ConversationID,
		"request_id":      uuid.NewString(),
	})

	session, err := s.loadSession(ctx, msg.ConversationID)
	if err != nil {
		l.Error(err)
		return nil, errors.Wrap(err, "load session")
	}

	t := &turn{
		session: session,
		text:    strings.TrimSpace(msg.Text),
		l:       l,
	}

	r := s.match(t)
	if r == nil {
		l.Debug("no handler for message", map[string]any{"state": session.State})
		return nil, nil
	}

	l.Info("handling message", map[string]any{
		"route": r.name,
		"state": session.State,
	})

	reply := r.handle(ctx, t)

	if t.changed {
		session.UpdatedAt = s.now()
		if err := s.sessions.SaveSession(ctx, session); err != nil {
			l.Error(err, map[string]any{"route": r.name})
			return nil, errors.Wrap(err, "save session")
		}
		l.Info("session updated", map[string]any{
			"state":        session.State,
			"has_forecast": session.HasForecast(),
		})
	}

	return reply, nil
}

// Session returns the stored state of a conversation.
func (s *Service) Session(ctx context.Context, id string) (*models.ConversationSession, error) {
	return s.sessions.GetSession(ctx, id)
}

func (s *Service) loadSession(ctx context.Context, id string) (*models.ConversationSession, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return models.NewConversationSession(id), nil
	}
	return session, err
}
