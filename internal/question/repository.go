package question

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no question has the requested id.
var ErrNotFound = errors.New("question not found")

// Repository persists question definitions. List order is report order.
type Repository interface {
	List(ctx context.Context) ([]Question, error)
	SaveAll(ctx context.Context, qs []Question) error
	Get(ctx context.Context, id int) (Question, error)
	// Upsert replaces the question with the same id, or appends it. A zero
	// id is replaced by the next free id. The stored question is returned.
	Upsert(ctx context.Context, q Question) (Question, error)
	Delete(ctx context.Context, id int) error
}

// NextID returns one more than the largest id in qs (1 for an empty list).
func NextID(qs []Question) int {
	maxID := 0
	for _, q := range qs {
		if q.ID > maxID {
			maxID = q.ID
		}
	}
	return maxID + 1
}

// Import appends incoming definitions, renumbering them sequentially from
// NextID so ids stay unique across manual edits and imports. Nothing is
// saved if any definition is invalid.
func Import(ctx context.Context, repo Repository, incoming []Question) ([]Question, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	start := NextID(existing)
	added := make([]Question, len(incoming))
	for i, q := range incoming {
		q.ID = start + i
		if err := Validate(q); err != nil {
			return nil, fmt.Errorf("import entry %d: %w", i+1, err)
		}
		added[i] = q
	}
	if err := repo.SaveAll(ctx, append(existing, added...)); err != nil {
		return nil, err
	}
	return added, nil
}

func checkUnique(qs []Question) error {
	seen := make(map[int]bool, len(qs))
	for _, q := range qs {
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

// upsertInto applies Upsert semantics to an in-memory list.
func upsertInto(qs []Question, q Question) ([]Question, Question) {
	if q.ID == 0 {
		q.ID = NextID(qs)
		return append(qs, q), q
	}
	for i := range qs {
		if qs[i].ID == q.ID {
			qs[i] = q
			return qs, q
		}
	}
	return append(qs, q), q
}
