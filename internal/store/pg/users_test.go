package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"schoolgate.dev/internal/auth"
)

func userRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "status",
		"last_accessed_organization_id", "last_accessed_module_id",
		"created_at", "updated_at",
	}).AddRow("u1", "t@example.org", "hash", "active", "org-a", nil, now, now)
}

func TestFindUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select id, email, password_hash.*from users where id").
		WithArgs("u1").
		WillReturnRows(userRows())

	user, err := store.Find(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if user.Email != "t@example.org" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.LastAccessedOrganizationID != "org-a" {
		t.Fatalf("preference not scanned: %+v", user)
	}
	if user.LastAccessedModuleID != "" {
		t.Fatalf("null module preference must scan empty, got %q", user.LastAccessedModuleID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindUserNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select id, email, password_hash.*from users where id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Find(context.Background(), "missing")
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateLastAccessedOrganizationClearsModule(t *testing.T) {
	store, mock := newMockStore(t)

	org := "org-b"
	module := ""
	mock.ExpectExec("update users set updated_at = now\\(\\), last_accessed_organization_id = \\$1, last_accessed_module_id = \\$2 where id = \\$3").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateLastAccessed(context.Background(), "u1", auth.LastAccessedUpdate{
		OrganizationID: &org,
		ModuleID:       &module,
	})
	if err != nil {
		t.Fatalf("UpdateLastAccessed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateLastAccessedModuleOnly(t *testing.T) {
	store, mock := newMockStore(t)

	module := "scheduler"
	mock.ExpectExec("update users set updated_at = now\\(\\), last_accessed_module_id = \\$1 where id = \\$2").
		WithArgs(sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateLastAccessed(context.Background(), "u1", auth.LastAccessedUpdate{
		ModuleID: &module,
	})
	if err != nil {
		t.Fatalf("UpdateLastAccessed: %v", err)
	}
}

func TestUpdateLastAccessedUnknownUser(t *testing.T) {
	store, mock := newMockStore(t)

	org := "org-a"
	mock.ExpectExec("update users set").
		WithArgs(sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateLastAccessed(context.Background(), "missing", auth.LastAccessedUpdate{
		OrganizationID: &org,
	})
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
