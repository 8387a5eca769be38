package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"weather-bot/docs"
	"weather-bot/internal/models"
	"weather-bot/internal/services/conversation"
	"weather-bot/pkg/logger"
)

// ConversationService is the part of conversation.Service the HTTP surface needs.
type ConversationService interface {
	HandleMessage(ctx context.Context, msg conversation.Message) (*conversation.Reply, error)
	Session(ctx context.Context, id string) (*models.ConversationSession, error)
}

type routes struct {
	service ConversationService
	l       *logger.Logger
}

func NewRouter(
	app *fiber.App,
	service ConversationService,
	l *logger.Logger,
) {
	r := &routes{
		service: service,
		l:       l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(docs.SwaggerJSON)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	v1 := app.Group("/v1")
	v1.Post("/conversations/:id/messages", r.handlePostMessage)
	v1.Get("/conversations/:id", r.handleGetConversation)
}
