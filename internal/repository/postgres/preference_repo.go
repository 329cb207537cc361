package postgres

/*
Файл preference_repo.go хранит пользовательские предпочтения консоли (тема)
в PostgreSQL. Состояние страниц сюда не попадает — оно живет только в памяти.
*/

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Драйвер Postgres
	"github.com/xela07ax/intellibridge-console/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS ui_preferences (
	session_id TEXT PRIMARY KEY,
	theme      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type PreferenceRepo struct {
	db *sql.DB
}

// NewPreferenceRepo открывает пул соединений. Доступность базы проверяется через Ping.
func NewPreferenceRepo(connString string, maxConns int) (*PreferenceRepo, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &PreferenceRepo{db: db}, nil
}

// Ping проверяет доступность базы и создает таблицу при первом подключении
func (r *PreferenceRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

func (r *PreferenceRepo) GetTheme(ctx context.Context, sessionID string) (domain.Theme, bool, error) {
	var theme string
	err := r.db.QueryRowContext(ctx,
		`SELECT theme FROM ui_preferences WHERE session_id = $1`, sessionID,
	).Scan(&theme)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("postgres: get theme: %w", err)
	}
	return domain.Theme(theme), true, nil
}

func (r *PreferenceRepo) SaveTheme(ctx context.Context, sessionID string, theme domain.Theme) error {
	query := `
		INSERT INTO ui_preferences (session_id, theme, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO UPDATE SET theme = EXCLUDED.theme, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, sessionID, string(theme)); err != nil {
		return fmt.Errorf("postgres: save theme: %w", err)
	}
	return nil
}

func (r *PreferenceRepo) Close() error {
	return r.db.Close()
}
