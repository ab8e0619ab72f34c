package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"schoolgate.dev/internal/auth"
)

const userColumns = `id, email, password_hash, status,
	last_accessed_organization_id, last_accessed_module_id,
	created_at, updated_at`

// Find fetches one user by id.
func (s *Store) Find(ctx context.Context, id string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id = $1`, id)
	return scanUser(row)
}

// FindByEmail fetches one user by email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email = $1`, email)
	return scanUser(row)
}

// UpdateLastAccessed persists navigation preference changes. Only the
// fields present in the update are touched; an empty string clears the
// column.
func (s *Store) UpdateLastAccessed(ctx context.Context, userID string, upd auth.LastAccessedUpdate) error {
	sets := []string{"updated_at = now()"}
	args := []any{}
	arg := 1
	if upd.OrganizationID != nil {
		sets = append(sets, fmt.Sprintf("last_accessed_organization_id = $%d", arg))
		args = append(args, nullable(*upd.OrganizationID))
		arg++
	}
	if upd.ModuleID != nil {
		sets = append(sets, fmt.Sprintf("last_accessed_module_id = $%d", arg))
		args = append(args, nullable(*upd.ModuleID))
		arg++
	}
	args = append(args, userID)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`update users set %s where id = $%d`, strings.Join(sets, ", "), arg),
		args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*auth.User, error) {
	var (
		u         auth.User
		lastOrg   sql.NullString
		lastModul sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Status,
		&lastOrg, &lastModul, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.LastAccessedOrganizationID = lastOrg.String
	u.LastAccessedModuleID = lastModul.String
	return &u, nil
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
