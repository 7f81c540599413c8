package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps question definitions in a SQLite database. Each row holds
// the JSON encoding of one question; position preserves report order.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("question store: ensure dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("question store: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("question store: schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY,
    position INTEGER NOT NULL,
    body TEXT NOT NULL
);`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) List(ctx context.Context) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM questions ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	qs := []Question{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q Question
		if err := json.Unmarshal([]byte(body), &q); err != nil {
			return nil, fmt.Errorf("decode question: %w", err)
		}
		qs = append(qs, q)
	}
	return qs, rows.Err()
}

func (s *SQLiteStore) SaveAll(ctx context.Context, qs []Question) error {
	if err := checkUnique(qs); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO questions (id, position, body) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, q := range qs {
		body, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("encode question %d: %w", q.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, q.ID, i, string(body)); err != nil {
			return fmt.Errorf("insert question %d: %w", q.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Get(ctx context.Context, id int) (Question, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM questions WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	var q Question
	if err := json.Unmarshal([]byte(body), &q); err != nil {
		return Question{}, fmt.Errorf("decode question %d: %w", id, err)
	}
	return q, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, q Question) (Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Question{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	if q.ID == 0 {
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM questions`).Scan(&q.ID); err != nil {
			return Question{}, fmt.Errorf("next id: %w", err)
		}
	}
	if err := Validate(q); err != nil {
		return Question{}, err
	}
	body, err := json.Marshal(q)
	if err != nil {
		return Question{}, fmt.Errorf("encode question %d: %w", q.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO questions (id, position, body)
VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM questions), ?)
ON CONFLICT(id) DO UPDATE SET body = excluded.body`, q.ID, string(body))
	if err != nil {
		return Question{}, fmt.Errorf("upsert question %d: %w", q.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return Question{}, fmt.Errorf("commit: %w", err)
	}
	return q, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}
