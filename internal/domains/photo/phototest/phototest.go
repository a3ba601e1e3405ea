// Package phototest holds in-memory fakes of the photo repository and
// the object store.
package phototest

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"furrymatch-backend/internal/domains/photo/model"
	"furrymatch-backend/internal/infrastructure/storage"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/crud/crudtest"
	"furrymatch-backend/internal/shared/pagination"
)

// Repository is a photo repository over crudtest.MemoryRepository.
// PetOwners maps pet ids to owner ids for OwnerObjectKeys.
type Repository struct {
	*crudtest.MemoryRepository[*model.Photo]
	PetOwners map[int64]int64
}

func NewRepository() *Repository {
	return &Repository{
		MemoryRepository: crudtest.NewMemoryRepository(model.New),
		PetOwners:        map[int64]int64{},
	}
}

func (r *Repository) all() []*model.Photo {
	photos, _, _ := r.FindWhere(allRows, nil)
	return photos
}

var allRows = pagination.Pageable{Page: 0, Size: math.MaxInt32}

func (r *Repository) ReplaceContent(ctx context.Context, id int64, c model.Content) (*model.Photo, []string, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	previous := p.Keys()

	now := time.Now().UTC()
	p.ContentType = &c.ContentType
	p.ObjectKey = &c.ObjectKey
	p.ThumbnailKey = &c.ThumbnailKey
	p.SizeBytes = &c.SizeBytes
	p.UploadedAt = &now

	updated, err := r.Update(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	return updated, previous, nil
}

func (r *Repository) ObjectKeys(ctx context.Context, id int64) ([]string, error) {
	p, err := r.FindByID(ctx, id)
	if errors.Is(err, crud.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Keys(), nil
}

func (r *Repository) PetObjectKeys(_ context.Context, petID int64) ([]string, error) {
	var keys []string
	for _, p := range r.all() {
		if p.PetID != nil && *p.PetID == petID {
			keys = append(keys, p.Keys()...)
		}
	}
	return keys, nil
}

func (r *Repository) OwnerObjectKeys(_ context.Context, ownerID int64) ([]string, error) {
	var keys []string
	for _, p := range r.all() {
		if p.PetID != nil && r.PetOwners[*p.PetID] == ownerID {
			keys = append(keys, p.Keys()...)
		}
	}
	return keys, nil
}

func (r *Repository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := map[int64]bool{}
	for _, id := range ids {
		ok, err := r.ExistsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			existing[id] = true
		}
	}
	return existing, nil
}

type object struct {
	data        []byte
	contentType string
}

// Store is an in-memory storage.ObjectStore.
type Store struct {
	mu      sync.Mutex
	objects map[string]object
}

func NewStore() *Store {
	return &Store{objects: map[string]object{}}
}

func (s *Store) Upload(_ context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

func (s *Store) Download(_ context.Context, key string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[key]
	if !ok {
		return nil, "", storage.ErrObjectNotFound
	}
	return o.data, o.contentType, nil
}

func (s *Store) RemoveObjects(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.objects, k)
	}
	return nil
}

func (s *Store) ListKeys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Keys returns every stored key, sorted.
func (s *Store) Keys() []string {
	keys, _ := s.ListKeys(context.Background(), "")
	return keys
}

var _ storage.ObjectStore = (*Store)(nil)
