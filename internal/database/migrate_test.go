package database

import (
	"io/fs"
	"testing"
)

func TestMigrationURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/contatos":   "pgx5://u:p@localhost:5432/contatos",
		"postgresql://u:p@localhost:5432/contatos": "pgx5://u:p@localhost:5432/contatos",
		"pgx5://localhost/contatos":                "pgx5://localhost/contatos",
	}

	for in, want := range cases {
		if got := migrationURL(in); got != want {
			t.Errorf("migrationURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files)%2 != 0 || len(files) == 0 {
		t.Errorf("expected paired up/down migrations, got %v", files)
	}
}

func TestRollbackMigrations_RejectsNonPositiveSteps(t *testing.T) {
	if err := RollbackMigrations("postgres://localhost/x", 0); err == nil {
		t.Error("expected error for zero steps")
	}
}
