package main

import (
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"

	"weather-bot/config"
	"weather-bot/internal/repositories"
	"weather-bot/internal/services/conversation"
	"weather-bot/internal/services/render"
	"weather-bot/internal/services/report"
	"weather-bot/pkg/logger"
	"weather-bot/pkg/observe"
)

// application holds the wired dependency graph shared by every command.
type application struct {
	cnf       *config.Config
	l         *logger.Logger
	hook      *observe.SentryHook
	weather   repositories.ForecastRepository
	sessions  repositories.SessionRepository
	formatter *report.Formatter
	renderer  *render.Renderer
	service   *conversation.Service
}

func newApplication(cnf *config.Config, out io.Writer) (*application, error) {
	app := &application{cnf: cnf}

	opts := logger.Options{
		AppName: cnf.AppName,
		AppEnv:  cnf.AppEnv,
		Level:   cnf.Log.Level,
	}

	writers := []io.Writer{out}
	if cnf.Log.SentryDSN != "" {
		hook, err := observe.NewSentryHook(cnf.AppEnv, cnf.AppName, !cnf.IsProduction(), cnf.Log.SentryDSN, logger.New(opts, out))
		if err != nil {
			return nil, err
		}
		app.hook = hook
		writers = append(writers, hook)
	}

	app.l = logger.New(opts, writers...)

	locale, err := conversation.LocaleFor(cnf.Locale)
	if err != nil {
		return nil, err
	}

	wttr := repositories.NewWttrRepository(
		cnf.Weather.BaseURL,
		locale.Lang,
		cnf.Weather.Timeout,
		app.l,
		&http.Client{Timeout: cnf.Weather.Timeout},
	)
	resilient := repositories.NewResilientRepository(wttr, repositories.ResilientConfig{
		RPS:             cnf.Weather.RPS,
		Burst:           cnf.Weather.Burst,
		BreakerFailures: cnf.Weather.BreakerFailures,
		BreakerTimeout:  cnf.Weather.BreakerTimeout,
	}, app.l)
	app.weather = repositories.NewCachedRepository(resilient, cnf.Weather.CacheSize, cnf.Weather.CacheTTL, app.l)

	app.sessions, err = newSessionRepository(cnf.Sessions)
	if err != nil {
		return nil, err
	}

	app.formatter = report.NewFormatter(locale.Report)

	app.renderer, err = render.NewRenderer(render.Options{
		FontPath:   cnf.Render.FontPath,
		FontSize:   cnf.Render.FontSize,
		Background: cnf.Render.Background,
	})
	if err != nil {
		_ = app.sessions.Close()
		return nil, err
	}

	app.service = conversation.NewService(app.weather, app.sessions, app.formatter, app.renderer, locale, app.l)

	app.l.Info("application wired", map[string]any{
		"version":          cnf.AppVersion,
		"locale":           locale.Lang,
		"sessions_backend": cnf.Sessions.Backend,
		"weather":          app.weather.Name(),
	})

	return app, nil
}

func newSessionRepository(cnf config.SessionsConfig) (repositories.SessionRepository, error) {
	switch cnf.Backend {
	case "sqlite":
		repo, err := repositories.NewSQLiteSessionRepository(cnf.Path)
		if err != nil {
			return nil, errors.Wrap(err, "open session store")
		}
		return repo, nil
	case "memory":
		return repositories.NewMemorySessionRepository(), nil
	}
	return nil, errors.Errorf("unknown session backend %q", cnf.Backend)
}

func (a *application) close() {
	if err := a.sessions.Close(); err != nil {
		a.l.Error(err)
	}
	if a.hook != nil {
		a.hook.Flush()
	}
	_ = a.l.Stop()
}

func loadApplication(path string) (*application, error) {
	cnf, err := config.NewConfig(path)
	if err != nil {
		return nil, err
	}
	return newApplication(cnf, os.Stdout)
}
