// Package userdir reads the external accounts database. The API never writes
// to it; account management belongs to the accounts service.
package userdir

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sajilotrack/sajilotrack-be/internal/api/model"
	"github.com/sajilotrack/sajilotrack-be/shared/postgresql"
)

// ErrUserNotFound is returned when no account matches the id.
var ErrUserNotFound = errors.New("user not found")

// Directory looks up users in the accounts database.
type Directory struct {
	db *sqlx.DB
}

func NewDirectory(pg *postgresql.Client) *Directory {
	return &Directory{db: pg.DB()}
}

// FindByID returns the user with the given id, or ErrUserNotFound.
func (d *Directory) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	query := `
		SELECT id, name, phone, role
		FROM users
		WHERE id = $1
	`

	err := d.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return &user, nil
}
