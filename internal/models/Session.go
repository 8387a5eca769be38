package models

import "time"

// State is the input the conversation expects next.
type State string

const (
	AwaitingPlace      State = "awaiting_place"
	AwaitingTimeChoice State = "awaiting_time_choice"
)

// ConversationSession is the per-conversation state machine data.
// The ID is owned by the transport.
type ConversationSession struct {
	ID        string          `json:"id" example:"123456789"`
	State     State           `json:"state" example:"awaiting_place"`
	Forecast  *ForecastRecord `json:"forecast,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewConversationSession(id string) *ConversationSession {
	return &ConversationSession{
		ID:    id,
		State: AwaitingPlace,
	}
}

func (s *ConversationSession) HasForecast() bool {
	return s.Forecast != nil
}
