// Package sqlite provides a sqlite-backed dao.Store, so a compiled
// parser survives a process restart instead of being recompiled from
// its grammar description on every lookup.
package sqlite

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/dekarrin/llkgram/service/dao"
)

type store struct {
	dbFilename string
	db         *sql.DB
	grammars   *GrammarsDB
}

// NewDatastore opens (creating if necessary) a sqlite database file
// named llkgram.db under storageDir and returns a dao.Store backed by
// it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "llkgram.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	return s.db.Close()
}

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

func convertToDB_ByteSlice(b []byte) string {
	if len(b) < 1 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%s: %w", err.Error(), dao.ErrDecodingFailure)
	}
	*target = u
	return nil
}

func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}

func convertFromDB_ByteSlice(s string, target *[]byte) error {
	if s == "" {
		*target = nil
		return nil
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%s: %w", err.Error(), dao.ErrDecodingFailure)
	}
	*target = decoded
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
