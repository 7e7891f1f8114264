// Package inmem provides an in-memory, non-persistent dao.Store, used
// for tests and for deployments that don't need a compiled-parser
// cache to survive a restart.
package inmem

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dekarrin/llkgram/service/dao"
)

type store struct {
	grammars *grammarRepo
}

// NewDatastore returns a dao.Store backed entirely by in-process maps.
func NewDatastore() dao.Store {
	return &store{grammars: &grammarRepo{byID: map[uuid.UUID]dao.Grammar{}}}
}

func (s *store) Grammars() dao.GrammarRepository { return s.grammars }
func (s *store) Close() error                    { return nil }

type grammarRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]dao.Grammar
}

func (r *grammarRepo) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g.ID = uuid.New()
	r.byID[g.ID] = g
	return g, nil
}

func (r *grammarRepo) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	return g, nil
}

func (r *grammarRepo) GetByCacheKey(ctx context.Context, cacheKey string) (dao.Grammar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.byID {
		if g.CacheKey == cacheKey {
			return g, nil
		}
	}
	return dao.Grammar{}, dao.ErrNotFound
}

func (r *grammarRepo) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dao.Grammar, 0, len(r.byID))
	for _, g := range r.byID {
		out = append(out, g)
	}
	return out, nil
}

func (r *grammarRepo) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.byID[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	delete(r.byID, id)
	return g, nil
}

func (r *grammarRepo) Close() error { return nil }
