// Package repomanager wires repository constructors to a concrete database
// and exposes a schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/tickpulse/tickpulse/internal/dbx"
	"github.com/tickpulse/tickpulse/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX and
// runs schema migrations.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
