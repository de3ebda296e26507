// Package dbtx binds gorm repositories to a *sql.Tx opened by a service.
package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a gorm handle scoped to ctx. When tx is non-nil every
// statement issued through the handle runs inside that transaction.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	conn := db.WithContext(ctx)
	if tx != nil {
		conn.Statement.ConnPool = tx
	}
	return conn
}
