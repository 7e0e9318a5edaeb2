// Package archive is the optional persistence collaborator at the engine's
// boundary. Live rooms never touch it; the gateway hands it a room's final
// shape list at teardown and asks it once when a room id is first seen.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inkwell-app/inkwell/backend/internal/canvas"
)

type Store struct {
	db *sql.DB
}

// A room snapshot as recorded at teardown
type ArchivedRoom struct {
	RoomID     string    `json:"room_id"`
	Name       string    `json:"name"`
	ShapeCount int       `json:"shape_count"`
	SavedAt    time.Time `json:"saved_at"`
}

func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	slog.Info("archive initialized", "path", dbPath)
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS room_snapshots (
		room_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		shape_count INTEGER NOT NULL DEFAULT 0,
		shapes_json BLOB NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_room_snapshots_saved_at ON room_snapshots(saved_at);
	`

	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Upserts the room's final shape list, replacing any earlier snapshot
func (s *Store) SaveSnapshot(roomID, name string, shapes []canvas.Shape) error {
	data, err := json.Marshal(shapes)
	if err != nil {
		return fmt.Errorf("marshal shapes: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO room_snapshots (room_id, name, shape_count, shapes_json, saved_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(room_id) DO UPDATE SET
			name = excluded.name,
			shape_count = excluded.shape_count,
			shapes_json = excluded.shapes_json,
			saved_at = CURRENT_TIMESTAMP
	`, roomID, name, len(shapes), data)
	return err
}

// Returns the archived shape list for the room, or nil when none exists
func (s *Store) LoadSnapshot(roomID string) ([]canvas.Shape, error) {
	var data []byte
	err := s.db.QueryRow(
		"SELECT shapes_json FROM room_snapshots WHERE room_id = ?",
		roomID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var shapes []canvas.Shape
	if err := json.Unmarshal(data, &shapes); err != nil {
		return nil, fmt.Errorf("unmarshal shapes: %w", err)
	}
	return shapes, nil
}

func (s *Store) DeleteSnapshot(roomID string) error {
	_, err := s.db.Exec("DELETE FROM room_snapshots WHERE room_id = ?", roomID)
	return err
}

// Lists archived rooms, most recently saved first
func (s *Store) ListRooms(limit, offset int) ([]ArchivedRoom, error) {
	rows, err := s.db.Query(`
		SELECT room_id, name, shape_count, saved_at
		FROM room_snapshots
		ORDER BY saved_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArchivedRoom
	for rows.Next() {
		var r ArchivedRoom
		if err := rows.Scan(&r.RoomID, &r.Name, &r.ShapeCount, &r.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Deletes snapshots not saved to since the cutoff; returns how many went
func (s *Store) DeleteOlderThan(cutoff time.Time) (int64, error) {
	// saved_at is CURRENT_TIMESTAMP text, so compare in the same format
	res, err := s.db.Exec("DELETE FROM room_snapshots WHERE saved_at < ?", cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Stats() (map[string]any, error) {
	stats := make(map[string]any)

	var roomCount, shapeCount int
	if err := s.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(shape_count), 0) FROM room_snapshots").Scan(&roomCount, &shapeCount); err != nil {
		return nil, err
	}
	stats["archived_rooms"] = roomCount
	stats["archived_shapes"] = shapeCount

	return stats, nil
}
