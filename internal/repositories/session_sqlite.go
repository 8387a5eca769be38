package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"weather-bot/internal/models"
)

// SQLiteSessionRepository persists sessions in a SQLite file so conversations
// survive restarts. The dbPath can be ":memory:" for tests.
type SQLiteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(dbPath string) (*SQLiteSessionRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	s := &SQLiteSessionRepository{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteSessionRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		forecast TEXT,
		updated_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteSessionRepository) GetSession(ctx context.Context, id string) (*models.ConversationSession, error) {
	query := `SELECT id, state, forecast, updated_at FROM sessions WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)

	var (
		session  models.ConversationSession
		state    string
		forecast sql.NullString
	)

	err := row.Scan(&session.ID, &state, &forecast, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	session.State = models.State(state)

	if forecast.Valid && forecast.String != "" {
		var record models.ForecastRecord
		if err := json.Unmarshal([]byte(forecast.String), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal forecast: %w", err)
		}
		session.Forecast = &record
	}

	return &session, nil
}

func (s *SQLiteSessionRepository) SaveSession(ctx context.Context, session *models.ConversationSession) error {
	var forecast sql.NullString
	if session.Forecast != nil {
		data, err := json.Marshal(session.Forecast)
		if err != nil {
			return fmt.Errorf("failed to marshal forecast: %w", err)
		}
		forecast = sql.NullString{String: string(data), Valid: true}
	}

	updatedAt := session.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query := `
	INSERT INTO sessions (id, state, forecast, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		state = excluded.state,
		forecast = excluded.forecast,
		updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, session.ID, string(session.State), forecast, updatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	return nil
}

func (s *SQLiteSessionRepository) Close() error {
	return s.db.Close()
}

var (
	_ SessionRepository = (*MemorySessionRepository)(nil)
	_ SessionRepository = (*SQLiteSessionRepository)(nil)
)
