package observe

import (
	"bytes"
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-bot/pkg/logger"
)

type captured struct {
	events []*sentry.Event
}

func (c *captured) capture(e *sentry.Event) *sentry.EventID {
	c.events = append(c.events, e)
	id := sentry.EventID("test")
	return &id
}

func TestSentryHook_ForwardsErrors(t *testing.T) {
	c := &captured{}
	hook := newSentryHook("prod", "weather-bot", c.capture, logger.NewZapLogger("sentry-test"))
	l := logger.New(logger.Options{AppName: "weather-bot", AppEnv: "prod"}, hook).
		With(map[string]any{"conversation_id": "42", "request_id": "req-1"})

	l.Info("handling message")
	l.Warning("location not found")
	l.Error(errors.New("wttr.in unavailable"))

	require.Len(t, c.events, 1)
	event := c.events[0]
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "wttr.in unavailable", event.Message)
	assert.Equal(t, "prod", event.Environment)
	assert.Equal(t, "42", event.Tags["conversation_id"])
	assert.Equal(t, "req-1", event.Tags["request_id"])
	assert.Equal(t, "weather-bot", event.Extra["AppName"])
	require.Len(t, event.Exception, 1)
	assert.Equal(t, "wttr.in unavailable", event.Exception[0].Value)
}

func TestSentryHook_SkipsLocalEnv(t *testing.T) {
	c := &captured{}
	hook := newSentryHook("local", "weather-bot", c.capture, logger.NewZapLogger("sentry-test"))
	l := logger.New(logger.Options{AppName: "weather-bot", AppEnv: "local"}, hook)

	l.Error(errors.New("boom"))
	assert.Empty(t, c.events)
}

func TestSentryHook_BadLine(t *testing.T) {
	c := &captured{}
	var buf bytes.Buffer
	hook := newSentryHook("dev", "weather-bot", c.capture, logger.NewZapLogger("weather-bot", &buf))

	n, err := hook.Write([]byte("not json"))
	require.NoError(t, err)
	assert.Equal(t, len("not json"), n)
	assert.Empty(t, c.events)
	assert.Contains(t, buf.String(), "[SentryHook] json.Unmarshal data")
}

func TestNewSentryHook_RequiresDSN(t *testing.T) {
	_, err := NewSentryHook("prod", "weather-bot", false, "", logger.NewZapLogger("sentry-test"))
	assert.Error(t, err)
}
