package db

import (
	"path/filepath"
	"testing"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
	"github.com/yungbote/puzzlegraph/internal/platform/logger"
)

func TestNewServiceRejectsBadConfig(t *testing.T) {
	if _, err := NewService(Config{Driver: "mysql"}, logger.Nop()); err == nil {
		t.Fatalf("want error for unsupported driver")
	}
	if _, err := NewService(Config{Driver: DriverPostgres}, logger.Nop()); err == nil {
		t.Fatalf("want error for missing postgres dsn")
	}
}

func TestSQLiteMigrate(t *testing.T) {
	svc, err := NewService(Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "graph.db")}, logger.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	if err := AutoMigrateAll(svc.DB()); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	for _, table := range []any{&puzzle.StateRow{}, &puzzle.MoveRow{}} {
		if !svc.DB().Migrator().HasTable(table) {
			t.Fatalf("table for %T missing", table)
		}
	}
}
