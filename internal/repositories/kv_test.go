package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/readtrack/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVRepository(t *testing.T) {
	t.Run("Get missing key", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		_, err := repo.Get("token")
		if !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		if err := repo.Set("token", "abc"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}

		got, err := repo.Get("token")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got != "abc" {
			t.Errorf("expected abc, got %s", got)
		}
	})

	t.Run("Set replaces existing value", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		if err := repo.Set("token", "first"); err != nil {
			t.Fatal(err)
		}
		if err := repo.Set("token", "second"); err != nil {
			t.Fatal(err)
		}

		got, _ := repo.Get("token")
		if got != "second" {
			t.Errorf("expected second, got %s", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		if err := repo.Set("token", "abc"); err != nil {
			t.Fatal(err)
		}
		if err := repo.Delete("token"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := repo.Get("token"); !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected key to be gone, got %v", err)
		}
		if err := repo.Delete("token"); err != nil {
			t.Errorf("deleting a missing key should succeed, got %v", err)
		}
	})
}
