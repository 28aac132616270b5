// Package testdb starts a disposable PostgreSQL container with the schema
// applied, for integration tests gated on CAREGATE_TEST_INTEGRATION.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/caregate/migrations"
)

// EnvIntegration enables container-backed tests when set.
const EnvIntegration = "CAREGATE_TEST_INTEGRATION"

// Open starts a container, migrates it, and returns a connection pool.
// The test is skipped unless EnvIntegration is set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	if os.Getenv(EnvIntegration) == "" {
		t.Skipf("integration test: set %s to run", EnvIntegration)
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("caregate_test"),
		postgres.WithUsername("caregate"),
		postgres.WithPassword("caregate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	if err := migrations.Up(url); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping database: %v", err)
	}

	return db
}
