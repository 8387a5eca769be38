package conversation

import (
	"context"
	"errors"
	"strings"

	"weather-bot/internal/models"
	"weather-bot/internal/repositories"
	"weather-bot/pkg/logger"
)

// anyState makes a route match regardless of the session state.
const anyState models.State = ""

// turn is the state of one message while it travels through a route.
type turn struct {
	session *models.ConversationSession
	text    string
	changed bool
	l       *logger.Logger
}

type route struct {
	name   string
	state  models.State
	match  func(text string) bool
	handle func(ctx context.Context, t *turn) *Reply
}

// dispatchTable lists the routes in priority order: commands first, then
// exact labels, then the catch-all of the place prompt.
func (s *Service) dispatchTable() []route {
	return []route{
		{name: "reset", state: anyState, match: isStartCommand, handle: s.handleReset},
		{name: "change_place", state: models.AwaitingTimeChoice, match: s.isChangePlace, handle: s.handleChangePlace},
		{name: "report", state: models.AwaitingTimeChoice, match: s.isSlotLabel, handle: s.handleReport},
		{name: "lookup", state: models.AwaitingPlace, match: isNotEmpty, handle: s.handleLookup},
	}
}

func (s *Service) match(t *turn) *route {
	for i := range s.routes {
		r := &s.routes[i]
		if r.state != anyState && r.state != t.session.State {
			continue
		}
		if r.match(t.text) {
			return r
		}
	}
	return nil
}

func isStartCommand(text string) bool {
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd == StartCommand
}

func isNotEmpty(text string) bool {
	return text != ""
}

func (s *Service) isChangePlace(text string) bool {
	return text == s.locale.ChangePlace
}

func (s *Service) isSlotLabel(text string) bool {
	_, ok := s.locale.Slot(text)
	return ok
}

func (s *Service) askPlace() *Reply {
	return &Reply{Text: s.locale.AskPlace}
}

func (s *Service) handleReset(_ context.Context, t *turn) *Reply {
	t.session.State = models.AwaitingPlace
	t.changed = true
	return s.askPlace()
}

// handleChangePlace keeps the cached forecast; it is replaced by the next
// successful lookup.
func (s *Service) handleChangePlace(_ context.Context, t *turn) *Reply {
	t.session.State = models.AwaitingPlace
	t.changed = true
	return s.askPlace()
}

func (s *Service) handleLookup(ctx context.Context, t *turn) *Reply {
	record, err := s.weather.FetchForecast(ctx, t.text)
	switch {
	case errors.Is(err, repositories.ErrLocationNotFound):
		t.l.Warning("location not found", map[string]any{"location": t.text, "err": err})
		return &Reply{Text: s.locale.PlaceNotFound}
	case err != nil:
		t.l.Error(err, map[string]any{"location": t.text, "kind": "provider_unavailable"})
		return &Reply{Text: s.locale.PlaceNotFound}
	}

	t.session.Forecast = &record
	t.session.State = models.AwaitingTimeChoice
	t.changed = true

	t.l.Info("forecast cached", map[string]any{"params": record.RequestParams()})

	return &Reply{
		Text:    s.locale.AskWhen,
		Choices: s.locale.TimeChoices(),
	}
}

func (s *Service) handleReport(_ context.Context, t *turn) *Reply {
	if !t.session.HasForecast() {
		t.l.Warning("time slot chosen without a cached forecast")
		return nil
	}

	slot, _ := s.locale.Slot(t.text)

	text, err := s.formatter.Format(t.session.Forecast, slot)
	if err != nil {
		t.l.Error(err, map[string]any{"slot": slot.String(), "kind": "format_failure"})
		return &Reply{Text: s.locale.ReportFailed}
	}

	image, err := s.renderer.Render(text)
	if err != nil {
		t.l.Error(err, map[string]any{"slot": slot.String(), "kind": "render_failure"})
		return &Reply{Text: s.locale.ReportFailed}
	}

	t.l.Info("report rendered", map[string]any{
		"slot":  slot.String(),
		"bytes": len(image),
	})

	return &Reply{Image: image}
}
