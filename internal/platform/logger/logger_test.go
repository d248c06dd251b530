package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"neo4j_password", "hunter2", "postgres_dsn", "postgres://u:p@h/db", "batch", 3, "dangling"})
	if len(out) != 7 {
		t.Fatalf("length: want=7 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("password: want=[REDACTED] got=%v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("dsn: want=[REDACTED] got=%v", out[3])
	}
	if out[5] != 3 {
		t.Fatalf("batch: want=3 got=%v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key: got=%v", out[6])
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("dev", "loud"); err == nil {
		t.Fatalf("want error for unknown level")
	}
	log, err := New("prod", "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With("service", "test").Debug("dropped")
}
