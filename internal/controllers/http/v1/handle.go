package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"weather-bot/internal/repositories"
	"weather-bot/internal/services/conversation"
)

// MessageRequest is one chat line sent to a conversation
type MessageRequest struct {
	Text string `json:"text" example:"London"`
}

// TextReply is a prompt with optional keyboard rows
type TextReply struct {
	Text    string     `json:"text" example:"Когда?"`
	Choices [][]string `json:"choices,omitempty"`
}

// ConversationResponse describes the stored state of a conversation
type ConversationResponse struct {
	ID          string    `json:"id" example:"42"`
	State       string    `json:"state" example:"awaiting_time_choice"`
	HasForecast bool      `json:"has_forecast" example:"true"`
	Location    string    `json:"location,omitempty" example:"London, United Kingdom"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required field: text"`
}

// handlePostMessage godoc
// @Summary Send a message to a conversation
// @Description Runs one chat line through the conversation state machine.
// @Tags Conversations
// @Accept json
// @Produce json,png
// @Param id path string true "Conversation id"
// @Param message body MessageRequest true "Chat line"
// @Success 200 {object} TextReply "Prompt reply"
// @Success 204 "Message ignored"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /v1/conversations/{id}/messages [post]
func (r *routes) handlePostMessage(c *fiber.Ctx) error {
	id := c.Params("id")

	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required field: text",
		})
	}

	reply, err := r.service.HandleMessage(c.UserContext(), conversation.Message{
		ConversationID: id,
		Text:           req.Text,
	})
	if err != nil {
		r.l.Error(err, map[string]any{"conversation_id": id})

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to handle message",
		})
	}

	switch {
	case reply == nil:
		return c.SendStatus(fiber.StatusNoContent)
	case reply.Image != nil:
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(reply.Image)
	}

	return c.JSON(TextReply{
		Text:    reply.Text,
		Choices: reply.Choices,
	})
}

// handleGetConversation godoc
// @Summary Get conversation state
// @Tags Conversations
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {object} ConversationResponse
// @Failure 404 {object} ErrorResponse "Unknown conversation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /v1/conversations/{id} [get]
func (r *routes) handleGetConversation(c *fiber.Ctx) error {
	id := c.Params("id")

	session, err := r.service.Session(c.UserContext(), id)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "Conversation not found",
		})
	}
	if err != nil {
		r.l.Error(err, map[string]any{"conversation_id": id})

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to load conversation",
		})
	}

	response := ConversationResponse{
		ID:          session.ID,
		State:       string(session.State),
		HasForecast: session.HasForecast(),
		UpdatedAt:   session.UpdatedAt,
	}
	if session.HasForecast() {
		response.Location = session.Forecast.Location
	}

	return c.JSON(response)
}
