package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dekarrin/llkgram/service/dao"
)

// GrammarsDB is the sqlite-backed dao.GrammarRepository: one row per
// registered grammar, storing both the YAML it was decoded from and
// the REZI-encoded compiled parser built from it.
type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		cache_key TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		compiled_blob TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}
	g.ID = newUUID
	g.Created = g.Created.UTC()

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO grammars (id, cache_key, description, compiled_blob, created) VALUES (?, ?, ?, ?, ?)`,
		convertToDB_UUID(g.ID),
		g.CacheKey,
		convertToDB_ByteSlice(g.Description),
		convertToDB_ByteSlice(g.CompiledBlob),
		convertToDB_Time(g.Created),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, g.ID)
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, cache_key, description, compiled_blob, created FROM grammars WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanGrammarRow(row.Scan)
}

func (repo *GrammarsDB) GetByCacheKey(ctx context.Context, cacheKey string) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, cache_key, description, compiled_blob, created FROM grammars WHERE cache_key = ?;`,
		cacheKey,
	)
	return scanGrammarRow(row.Scan)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, cache_key, description, compiled_blob, created FROM grammars;`,
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var out []dao.Grammar
	for rows.Next() {
		g, err := scanGrammarRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}
	return out, nil
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *GrammarsDB) Close() error {
	return nil
}

func scanGrammarRow(scan func(...interface{}) error) (dao.Grammar, error) {
	var g dao.Grammar
	var id, description, compiledBlob string
	var created int64

	err := scan(&id, &g.CacheKey, &description, &compiledBlob, &created)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return dao.Grammar{}, fmt.Errorf("stored id is invalid: %w", err)
	}
	if err := convertFromDB_ByteSlice(description, &g.Description); err != nil {
		return dao.Grammar{}, fmt.Errorf("stored description for %s is invalid: %w", g.ID, err)
	}
	if err := convertFromDB_ByteSlice(compiledBlob, &g.CompiledBlob); err != nil {
		return dao.Grammar{}, fmt.Errorf("stored compiled blob for %s is invalid: %w", g.ID, err)
	}
	if err := convertFromDB_Time(created, &g.Created); err != nil {
		return dao.Grammar{}, fmt.Errorf("stored created time for %s is invalid: %w", g.ID, err)
	}

	return g, nil
}
