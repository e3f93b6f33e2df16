package sqlite

import "testing"

func TestMigrateUp_AppliesSchema(t *testing.T) {
	t.Parallel()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB error = %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp error = %v", err)
	}

	for _, table := range []string{"sessions", "messages", "settings", "api_keys"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not created: %v", table, err)
		}
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	t.Parallel()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB error = %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp error = %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second MigrateUp error = %v", err)
	}

	version, err := MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion error = %v", err)
	}
	if version != 1 {
		t.Errorf("MigrationVersion = %d; want 1", version)
	}
}

func TestMigrateUp_SeedsDefaultSettings(t *testing.T) {
	t.Parallel()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB error = %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp error = %v", err)
	}

	want := map[string]string{
		"default_model":   "gpt-3.5-turbo",
		"max_tokens":      "2000",
		"temperature":     "0.7",
		"logging_enabled": "true",
	}
	for key, expected := range want {
		var value string
		if err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value); err != nil {
			t.Errorf("default setting %q missing: %v", key, err)
			continue
		}
		if value != expected {
			t.Errorf("setting %q = %q; want %q", key, value, expected)
		}
	}
}

func TestVersionFromFilename(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"001_init_schema.up.sql": 1,
		"042_add_index.up.sql":   42,
		"garbage.up.sql":         0,
	}
	for name, want := range cases {
		if got := versionFromFilename(name); got != want {
			t.Errorf("versionFromFilename(%q) = %d; want %d", name, got, want)
		}
	}
}
