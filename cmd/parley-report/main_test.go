package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parleyhq/parley/internal/domain/chat"
	"github.com/parleyhq/parley/internal/infra/sqlite"
)

func seedDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parley.db")
	db, err := sqlite.NewDB(path)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}

	ctx := context.Background()
	sessions := chat.NewSessionService(db)
	messages := chat.NewMessageService(db)
	sess, err := sessions.Create(ctx, "seed", nil)
	if err != nil {
		t.Fatal(err)
	}
	model := "gpt-4"
	tokens := 42
	if _, err := messages.Create(ctx, chat.NewMessage{
		SessionID: sess.ID, Content: "reply", Role: chat.RoleAssistant,
		Model: &model, TokenCount: &tokens,
	}); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_PrintsReport(t *testing.T) {
	path := seedDatabase(t)

	var out bytes.Buffer
	code := run([]string{"-db", path}, &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, out.String())
	}
	got := out.String()
	if !strings.Contains(got, "gpt-4") {
		t.Errorf("report missing model row: %q", got)
	}
	if !strings.Contains(got, "42 tokens") {
		t.Errorf("report missing token total: %q", got)
	}
}

func TestRun_EmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sqlite.NewDB(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatal(err)
	}
	db.Close()

	var out bytes.Buffer
	code := run([]string{"-db", path}, &out)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "no assistant messages") {
		t.Errorf("expected empty-report message, got %q", out.String())
	}
}

func TestRun_MissingDatabase(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"-db", filepath.Join(t.TempDir(), "absent.db")}, &out)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "not found") {
		t.Errorf("expected not-found message, got %q", out.String())
	}
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"--bogus"}, &out)
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}
