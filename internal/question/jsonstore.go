package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

// JSONStore keeps all questions in one JSON array file, the layout the
// config manager has always written (questions_master.json).
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by path. The file is created on first save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file.
func (s *JSONStore) Path() string { return s.path }

// List loads every question. A missing file is an empty list.
func (s *JSONStore) List(_ context.Context) ([]Question, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Question{}, nil
		}
		return nil, fmt.Errorf("read questions: %w", err)
	}
	var qs []Question
	if err := json.Unmarshal(b, &qs); err != nil {
		return nil, fmt.Errorf("parse questions %s: %w", s.path, err)
	}
	if qs == nil {
		qs = []Question{}
	}
	return qs, nil
}

// SaveAll replaces the file contents atomically.
func (s *JSONStore) SaveAll(_ context.Context, qs []Question) error {
	if err := checkUnique(qs); err != nil {
		return err
	}
	if qs == nil {
		qs = []Question{}
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("ensure dir: %w", err)
		}
	}
	data, err := utils.PrettyJSON(qs)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(s.path, data)
}

func (s *JSONStore) Get(ctx context.Context, id int) (Question, error) {
	qs, err := s.List(ctx)
	if err != nil {
		return Question{}, err
	}
	for _, q := range qs {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (s *JSONStore) Upsert(ctx context.Context, q Question) (Question, error) {
	qs, err := s.List(ctx)
	if err != nil {
		return Question{}, err
	}
	qs, q = upsertInto(qs, q)
	if err := Validate(q); err != nil {
		return Question{}, err
	}
	if err := s.SaveAll(ctx, qs); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *JSONStore) Delete(ctx context.Context, id int) error {
	qs, err := s.List(ctx)
	if err != nil {
		return err
	}
	out := qs[:0]
	for _, q := range qs {
		if q.ID != id {
			out = append(out, q)
		}
	}
	if len(out) == len(qs) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s.SaveAll(ctx, out)
}
