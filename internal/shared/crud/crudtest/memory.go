// Package crudtest provides an in-memory crud.Repository for tests.
package crudtest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/pagination"
)

// MemoryRepository keeps entities in a map. Stored values are deep
// copies so callers can never mutate a "persisted" row by accident.
// Sorting ignores the requested order and always uses ascending id.
type MemoryRepository[E crud.Entity[E]] struct {
	mu     sync.Mutex
	rows   map[int64][]byte
	nextID int64
	newFn  func() E

	// Err, when set, is returned by every operation.
	Err error
}

func NewMemoryRepository[E crud.Entity[E]](newFn func() E) *MemoryRepository[E] {
	return &MemoryRepository[E]{rows: map[int64][]byte{}, nextID: 1, newFn: newFn}
}

func (r *MemoryRepository[E]) decode(raw []byte) E {
	e := r.newFn()
	_ = json.Unmarshal(raw, e)
	return e
}

func (r *MemoryRepository[E]) Create(_ context.Context, e E) (E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero E
	if r.Err != nil {
		return zero, r.Err
	}

	id := r.nextID
	r.nextID++
	e.SetID(&id)

	raw, err := json.Marshal(e)
	if err != nil {
		return zero, err
	}
	r.rows[id] = raw
	return r.decode(raw), nil
}

func (r *MemoryRepository[E]) Update(_ context.Context, e E) (E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero E
	if r.Err != nil {
		return zero, r.Err
	}

	id := e.GetID()
	if id == nil {
		return zero, crud.ErrNotFound
	}
	if _, ok := r.rows[*id]; !ok {
		return zero, crud.ErrNotFound
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return zero, err
	}
	r.rows[*id] = raw
	return r.decode(raw), nil
}

func (r *MemoryRepository[E]) FindByID(_ context.Context, id int64) (E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero E
	if r.Err != nil {
		return zero, r.Err
	}

	raw, ok := r.rows[id]
	if !ok {
		return zero, crud.ErrNotFound
	}
	return r.decode(raw), nil
}

func (r *MemoryRepository[E]) FindAll(_ context.Context, p pagination.Pageable) ([]E, int64, error) {
	return r.FindWhere(p, nil)
}

// FindWhere pages over the rows accepted by keep (all rows when nil).
func (r *MemoryRepository[E]) FindWhere(p pagination.Pageable, keep func(E) bool) ([]E, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var matched []E
	for _, id := range ids {
		e := r.decode(r.rows[id])
		if keep == nil || keep(e) {
			matched = append(matched, e)
		}
	}

	total := int64(len(matched))
	start := p.Offset()
	if start >= len(matched) {
		return []E{}, total, nil
	}
	end := start + p.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryRepository[E]) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	delete(r.rows, id)
	return nil
}

func (r *MemoryRepository[E]) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	_, ok := r.rows[id]
	return ok, nil
}

// Len returns the number of stored rows.
func (r *MemoryRepository[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
