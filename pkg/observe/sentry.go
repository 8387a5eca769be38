package observe

import (
	"encoding/json"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"weather-bot/pkg/logger"
)

const (
	_sentryMaxErrorDepth        int           = 9
	_sentryFlushTimeout         time.Duration = 5 * time.Second
	_sentryServerRequestTimeout time.Duration = 5 * time.Second
)

// reportedEnvs are the environments whose errors are forwarded to Sentry.
var reportedEnvs = map[string]bool{"prod": true, "dev": true}

// SentryHook is an io.Writer attached to the logger. It decodes every JSON
// log line and forwards error-level entries to Sentry.
type SentryHook struct {
	appEnv  string
	appName string
	capture func(*sentry.Event) *sentry.EventID
	l       *logger.Logger
}

// NewSentryHook initializes the Sentry client. The hook reports its own
// failures to l, which must not be a logger the hook is attached to.
func NewSentryHook(appEnv, appName string, isDebug bool, dsn string, l *logger.Logger) (*SentryHook, error) {
	if dsn == "" {
		return nil, errors.New("sentry: no DSN")
	}
	sentryTransport := sentry.NewHTTPTransport()
	sentryTransport.Timeout = _sentryServerRequestTimeout
	if err := sentry.Init(
		sentry.ClientOptions{
			AttachStacktrace: true,
			Debug:            isDebug,
			Dsn:              dsn,
			Environment:      appEnv,
			MaxErrorDepth:    _sentryMaxErrorDepth,
			ServerName:       appName,
			Transport:        sentryTransport,
		}); err != nil {
		return nil, errors.Wrap(err, "sentry init")
	}
	return newSentryHook(appEnv, appName, sentry.CaptureEvent, l), nil
}

func newSentryHook(appEnv, appName string, capture func(*sentry.Event) *sentry.EventID, l *logger.Logger) *SentryHook {
	return &SentryHook{
		appEnv:  appEnv,
		appName: appName,
		capture: capture,
		l:       l,
	}
}

func (*SentryHook) mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.DebugLevel, zapcore.InvalidLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel, zapcore.DPanicLevel:
		return sentry.LevelFatal
	}

	return sentry.LevelDebug
}

type logLine struct {
	Level          string `json:"level"`
	AppName        string `json:"app_name"`
	AppEnv         string `json:"app_env"`
	ConversationID string `json:"conversation_id"`
	RequestID      string `json:"request_id"`
	CallerFile     string `json:"caller_file"`
	CallerLine     int    `json:"caller_line"`
	CallerFunc     string `json:"caller_func"`
	Stack          string `json:"stack"`
	Message        string `json:"msg"`
	Error          string `json:"error"`
	Timestamp      string `json:"timestamp"`
}

func (h *SentryHook) Write(p []byte) (n int, err error) {
	if !reportedEnvs[h.appEnv] {
		return len(p), nil
	}

	var t logLine
	if err := json.Unmarshal(p, &t); err != nil {
		h.report(errors.Wrap(err, "[SentryHook] json.Unmarshal data"))
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(t.Level)
	if err != nil {
		h.report(errors.Wrap(err, "[SentryHook] parse zap level"))
		return len(p), nil
	}
	if level < zapcore.ErrorLevel || t.Message == "" {
		return len(p), nil
	}

	timestamp, _ := time.ParseInLocation("2006-01-02T15-04-05.000", t.Timestamp, time.FixedZone("Europe/Moscow", 3*3600))

	event := sentry.NewEvent()
	event.Environment = h.appEnv
	event.Level = h.mapLevel(level)
	event.Timestamp = timestamp
	event.Message = t.Message
	event.Extra["AppName"] = h.appName
	event.Extra["Error"] = t.Error
	event.Extra["CallerFile"] = t.CallerFile
	event.Extra["CallerLine"] = t.CallerLine
	event.Extra["CallerFunc"] = t.CallerFunc
	event.Extra["Stack"] = t.Stack
	event.Extra["TimeStamp"] = t.Timestamp
	if t.ConversationID != "" {
		event.Tags["conversation_id"] = t.ConversationID
	}
	if t.RequestID != "" {
		event.Tags["request_id"] = t.RequestID
	}
	event.Exception = append(event.Exception, sentry.Exception{
		Type:       t.Message,
		Value:      t.Error,
		Stacktrace: sentry.NewStacktrace(),
	})
	h.capture(event)

	return len(p), nil
}

// Flush waits for buffered events to be delivered.
func (h *SentryHook) Flush() bool {
	return sentry.Flush(_sentryFlushTimeout)
}

func (h *SentryHook) report(err error) {
	h.l.Warning(err.Error())
}
