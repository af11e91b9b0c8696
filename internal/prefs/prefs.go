// Package prefs persists user trade preferences and notifies subscribers on
// change. A single row survives restarts; readers always see a complete
// Preferences value, falling back to defaults when nothing was saved yet.
package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Selora-Finance/interface-sub000/pkg/types"
)

// Default preference values applied until the user saves their own.
const (
	DefaultSlippagePct     = 0.5
	DefaultDeadlineMinutes = 10
	DefaultTheme           = "dark"
)

// Defaults returns the preferences used before anything was saved.
func Defaults() types.Preferences {
	return types.Preferences{
		SlippagePct:     DefaultSlippagePct,
		DeadlineMinutes: DefaultDeadlineMinutes,
		Router:          types.RouterAuto,
		Theme:           DefaultTheme,
	}
}

// Store holds the current preferences and their SQLite backing row.
type Store struct {
	db *sql.DB

	mu          sync.RWMutex
	current     types.Preferences
	subscribers map[int]func(types.Preferences)
	nextSubID   int
}

// Open opens (creating if needed) the preference database at dbPath and
// loads the saved row, or the defaults when none exists.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL keeps concurrent readers cheap.
	dsn := fmt.Sprintf("%s?_journal=WAL&_sync=NORMAL&_foreign_keys=ON", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{
		db:          db,
		current:     Defaults(),
		subscribers: make(map[int]func(types.Preferences)),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := s.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		slippage_pct REAL NOT NULL,
		deadline_minutes REAL NOT NULL,
		router TEXT NOT NULL,
		theme TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) load() error {
	var p types.Preferences
	var router string
	err := s.db.QueryRow(`
		SELECT slippage_pct, deadline_minutes, router, theme
		FROM preferences WHERE id = 1
	`).Scan(&p.SlippagePct, &p.DeadlineMinutes, &router, &p.Theme)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	p.Router = types.RouterType(router)
	if !p.Router.Valid() {
		p.Router = types.RouterAuto
	}
	s.current = p
	return nil
}

// Get returns the current preferences.
func (s *Store) Get() types.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set validates, persists and publishes new preferences.
func (s *Store) Set(ctx context.Context, p types.Preferences) error {
	if err := validate(p); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, slippage_pct, deadline_minutes, router, theme, updated_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			slippage_pct = excluded.slippage_pct,
			deadline_minutes = excluded.deadline_minutes,
			router = excluded.router,
			theme = excluded.theme,
			updated_at = excluded.updated_at
	`, p.SlippagePct, p.DeadlineMinutes, string(p.Router), p.Theme)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	s.mu.Lock()
	s.current = p
	subs := make([]func(types.Preferences), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
	return nil
}

// Subscribe registers an observer called after every successful Set and
// returns its unsubscribe function.
func (s *Store) Subscribe(fn func(types.Preferences)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func validate(p types.Preferences) error {
	if p.SlippagePct < 0 || p.SlippagePct > 100 {
		return fmt.Errorf("slippage must be between 0 and 100 percent, got %v", p.SlippagePct)
	}
	if p.DeadlineMinutes < 0 {
		return fmt.Errorf("deadline minutes must not be negative, got %v", p.DeadlineMinutes)
	}
	if !p.Router.Valid() {
		return fmt.Errorf("unknown router type %q", p.Router)
	}
	if p.Theme != "dark" && p.Theme != "light" {
		return fmt.Errorf("unknown theme %q", p.Theme)
	}
	return nil
}
