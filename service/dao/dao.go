// Package dao provides data access objects for the llkgram service:
// persistence of grammar descriptions and their compiled parsers.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from storage format")
)

// Store holds every repository the service needs.
type Store interface {
	Grammars() GrammarRepository
	Close() error
}

// GrammarRepository persists grammar descriptions alongside their
// compiled parser, so a previously registered grammar can be parsed
// against without recompiling its LUT on every request.
type GrammarRepository interface {
	// Create stores a new grammar. g.ID is ignored and replaced with a
	// freshly generated one.
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)
	GetByCacheKey(ctx context.Context, cacheKey string) (Grammar, error)
	GetAll(ctx context.Context) ([]Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}

// Grammar is the stored shape of a registered grammar: the YAML
// description it was decoded from, plus the REZI-encoded compiled
// parser built from it.
type Grammar struct {
	ID           uuid.UUID
	CacheKey     string
	Description  []byte // the YAML document the grammar was decoded from
	CompiledBlob []byte // (*parse.Parser).Save output
	Created      time.Time
}
