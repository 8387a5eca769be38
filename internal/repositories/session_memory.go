package repositories

import (
	"context"
	"sync"

	"weather-bot/internal/models"
)

// MemorySessionRepository keeps sessions for the lifetime of the process.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.ConversationSession
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]models.ConversationSession),
	}
}

func (s *MemorySessionRepository) GetSession(_ context.Context, id string) (*models.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	// callers get their own copy; the forecast itself is immutable and shared
	return &sess, nil
}

func (s *MemorySessionRepository) SaveSession(_ context.Context, session *models.ConversationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionRepository) Close() error {
	return nil
}
