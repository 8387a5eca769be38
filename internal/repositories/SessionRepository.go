package repositories

import (
	"context"
	"errors"

	"weather-bot/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists conversation sessions keyed by conversation id.
// Get and Save are atomic per id.
type SessionRepository interface {
	GetSession(ctx context.Context, id string) (*models.ConversationSession, error)
	SaveSession(ctx context.Context, session *models.ConversationSession) error
	Close() error
}
