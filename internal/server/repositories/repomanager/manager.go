package repomanager

import (
	"context"
	"database/sql"

	"github.com/centrinote/centrinote/internal/dbx"
	"github.com/centrinote/centrinote/internal/server/repositories/connections"
	"github.com/centrinote/centrinote/internal/server/repositories/meetings"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Meetings(db dbx.DBTX) meetings.Repository
	Connections(db dbx.DBTX) connections.Repository
}
