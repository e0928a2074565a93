package db

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/lnmedico/lnmedico-backend/pkg/config"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
)

func TestNew_SQLite(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	dsn := "file:db_" + uuid.NewString() + "?mode=memory&cache=shared"

	client, err := New(context.Background(), config.StorageDriverSQLite, config.DBConfig{DSN: dsn, MaxOpenConns: 1}, logg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if client.Dialect() != "sqlite3" {
		t.Fatalf("expected sqlite3 dialect, got %q", client.Dialect())
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if _, err := client.SQLDB(); err != nil {
		t.Fatalf("sql handle: %v", err)
	}
}

func TestNew_RejectsMissingDSNAndUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), config.StorageDriverSQLite, config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for missing dsn")
	}
	if _, err := New(context.Background(), "mysql", config.DBConfig{DSN: "x"}, nil); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
