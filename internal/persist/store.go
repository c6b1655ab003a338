package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store handles persistence of applications and conversation history
// using SQLite
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new SQLite-backed persistence store at the given path
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the necessary tables if they don't exist
func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			platform            TEXT NOT NULL,
			channel_id          TEXT NOT NULL,
			user_id             TEXT NOT NULL,
			stage               TEXT NOT NULL,
			role                TEXT,
			name                TEXT,
			email               TEXT,
			phone               TEXT,
			spotlight           TEXT,
			has_spotlight       INTEGER,
			has_representation  INTEGER,
			agency              TEXT,
			preferences         TEXT,
			materials           TEXT,
			ready               INTEGER NOT NULL DEFAULT 0,
			created_at          TEXT NOT NULL,
			updated_at          TEXT NOT NULL,
			UNIQUE(platform, channel_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS messages (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			application_id  INTEGER NOT NULL,
			role            TEXT NOT NULL,
			content         TEXT,
			created_at      TEXT NOT NULL,
			FOREIGN KEY (application_id) REFERENCES applications(id)
		);

		CREATE INDEX IF NOT EXISTS idx_messages_application ON messages(application_id);
		CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at);
		CREATE INDEX IF NOT EXISTS idx_applications_updated ON applications(updated_at);
	`)
	return err
}

// GetOrCreateApplication gets an existing application record or creates
// a new one at the given initial stage
func (s *Store) GetOrCreateApplication(platform, channelID, userID, initialStage string) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	nowStr := now.Format(time.RFC3339)

	app, err := s.getApplicationInternal(platform, channelID, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	if app != nil {
		return app, nil
	}

	result, err := s.db.Exec(`
		INSERT INTO applications (platform, channel_id, user_id, stage, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, platform, channelID, userID, initialStage, nowStr, nowStr)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Application{
		ID:        id,
		Platform:  platform,
		ChannelID: channelID,
		UserID:    userID,
		Stage:     initialStage,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetApplication returns the application for a thread, or sql.ErrNoRows
func (s *Store) GetApplication(platform, channelID, userID string) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getApplicationInternal(platform, channelID, userID)
}

func (s *Store) getApplicationInternal(platform, channelID, userID string) (*Application, error) {
	row := s.db.QueryRow(`
		SELECT id, platform, channel_id, user_id, stage, role, name, email, phone,
		       spotlight, has_spotlight, has_representation, agency, preferences,
		       materials, ready, created_at, updated_at
		FROM applications
		WHERE platform = ? AND channel_id = ? AND user_id = ?
	`, platform, channelID, userID)

	app, err := scanApplication(row)
	if err != nil {
		return nil, err
	}

	messages, err := s.getMessagesInternal(app.ID)
	if err == nil {
		app.Messages = messages
	}

	return app, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(row scanner) (*Application, error) {
	var app Application
	var role, name, email, phone, spotlight, agency sql.NullString
	var prefs, materials sql.NullString
	var hasSpotlight, hasRepresentation sql.NullInt64
	var ready int
	var createdAt, updatedAt string

	err := row.Scan(&app.ID, &app.Platform, &app.ChannelID, &app.UserID, &app.Stage,
		&role, &name, &email, &phone, &spotlight, &hasSpotlight, &hasRepresentation,
		&agency, &prefs, &materials, &ready, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	app.Role = role.String
	app.Name = name.String
	app.Email = email.String
	app.Phone = phone.String
	app.Spotlight = spotlight.String
	app.Agency = agency.String
	if hasSpotlight.Valid {
		v := hasSpotlight.Int64 != 0
		app.HasSpotlight = &v
	}
	if hasRepresentation.Valid {
		v := hasRepresentation.Int64 != 0
		app.HasRepresentation = &v
	}
	if prefs.Valid {
		_ = fromJSON(prefs.String, &app.Preferences)
	}
	if materials.Valid {
		_ = fromJSON(materials.String, &app.Materials)
	}
	app.Ready = ready != 0
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		app.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		app.UpdatedAt = t
	}

	return &app, nil
}

// SaveApplication persists the current state of an application record
func (s *Store) SaveApplication(app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	app.UpdatedAt = now

	_, err := s.db.Exec(`
		UPDATE applications SET
			stage = ?, role = ?, name = ?, email = ?, phone = ?, spotlight = ?,
			has_spotlight = ?, has_representation = ?, agency = ?,
			preferences = ?, materials = ?, ready = ?, updated_at = ?
		WHERE id = ?
	`, app.Stage, app.Role, app.Name, app.Email, app.Phone, app.Spotlight,
		boolPtrToNull(app.HasSpotlight), boolPtrToNull(app.HasRepresentation), app.Agency,
		toJSON(app.Preferences), toJSON(app.Materials), boolToInt(app.Ready),
		now.Format(time.RFC3339), app.ID)
	return err
}

func boolPtrToNull(b *bool) any {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// AddMessage appends a message to an application's conversation history
func (s *Store) AddMessage(applicationID int64, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Format(time.RFC3339)

	_, err := s.db.Exec(`
		INSERT INTO messages (application_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, applicationID, msg.Role, msg.Content, now)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE applications SET updated_at = ? WHERE id = ?
	`, now, applicationID)
	return err
}

func (s *Store) getMessagesInternal(applicationID int64) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT id, role, content, created_at
		FROM messages
		WHERE application_id = ?
		ORDER BY id ASC
	`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var createdAt string

		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			msg.CreatedAt = t
		}

		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// ListApplications loads every application record, newest first
func (s *Store) ListApplications() ([]*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, platform, channel_id, user_id, stage, role, name, email, phone,
		       spotlight, has_spotlight, has_representation, agency, preferences,
		       materials, ready, created_at, updated_at
		FROM applications
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

// DeleteApplication removes an application and its messages
func (s *Store) DeleteApplication(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM messages WHERE application_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM applications WHERE id = ?`, id)
	return err
}

// CleanupStale deletes unfinished applications untouched for longer than
// maxAge. Completed applications are kept. Returns the number removed.
func (s *Store) CleanupStale(maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge).Format(time.RFC3339)

	rows, err := s.db.Query(`
		SELECT id FROM applications WHERE ready = 0 AND updated_at < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		if _, err := s.db.Exec(`DELETE FROM messages WHERE application_id = ?`, id); err != nil {
			return 0, err
		}
		if _, err := s.db.Exec(`DELETE FROM applications WHERE id = ?`, id); err != nil {
			return 0, err
		}
	}

	return len(ids), nil
}

// CountPending returns the number of applications not yet ready for
// submission
func (s *Store) CountPending() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM applications WHERE ready = 0`).Scan(&n)
	return n, err
}

// exportedApplication is the JSON snapshot layout for submission handoff
type exportedApplication struct {
	Platform          string            `json:"platform"`
	ChannelID         string            `json:"channel_id"`
	UserID            string            `json:"user_id"`
	Stage             string            `json:"stage"`
	Role              string            `json:"role,omitempty"`
	Name              string            `json:"name,omitempty"`
	Email             string            `json:"email,omitempty"`
	Phone             string            `json:"phone,omitempty"`
	Spotlight         string            `json:"spotlight,omitempty"`
	HasSpotlight      *bool             `json:"has_spotlight,omitempty"`
	HasRepresentation *bool             `json:"has_representation,omitempty"`
	Agency            string            `json:"agency,omitempty"`
	Preferences       map[string]bool   `json:"preferences,omitempty"`
	Materials         map[string]string `json:"materials,omitempty"`
	Ready             bool              `json:"ready"`
	CreatedAt         string            `json:"created_at"`
	UpdatedAt         string            `json:"updated_at"`
	Messages          []exportedMessage `json:"messages,omitempty"`
}

type exportedMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// ExportJSON writes a JSON snapshot of an application into dir and
// returns the file path
func (s *Store) ExportJSON(app *Application, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	out := exportedApplication{
		Platform:          app.Platform,
		ChannelID:         app.ChannelID,
		UserID:            app.UserID,
		Stage:             app.Stage,
		Role:              app.Role,
		Name:              app.Name,
		Email:             app.Email,
		Phone:             app.Phone,
		Spotlight:         app.Spotlight,
		HasSpotlight:      app.HasSpotlight,
		HasRepresentation: app.HasRepresentation,
		Agency:            app.Agency,
		Preferences:       app.Preferences,
		Materials:         app.Materials,
		Ready:             app.Ready,
		CreatedAt:         app.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         app.UpdatedAt.Format(time.RFC3339),
	}
	for _, msg := range app.Messages {
		out.Messages = append(out.Messages, exportedMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s-%s.json", app.Platform, sanitizeFilePart(app.ChannelID), sanitizeFilePart(app.UserID))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}

	return path, nil
}

func sanitizeFilePart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
