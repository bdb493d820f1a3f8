package cli

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/pkarpov/structgate/internal/evidence"
)

// openStore opens (or creates) the SQLite evidence store at path.
// Empty path means no persistence; both returns are nil.
func openStore(path string) (*sql.DB, *evidence.Store, error) {
	if path == "" {
		return nil, nil, nil
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open evidence db: %w", err)
	}
	store, err := evidence.NewStore(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store, nil
}
