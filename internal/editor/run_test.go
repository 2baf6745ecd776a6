package editor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hunterjsb/arabot/internal/config"
	"github.com/hunterjsb/arabot/internal/gacha"
)

// runCommand executes one editor invocation against the database at path.
func runCommand(t *testing.T, path string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cfg := config.Editor{DatabasePath: path}
	if err := Run(args, cfg, &out, config.NewLogger(&out, "")); err != nil {
		t.Fatalf("Run %v failed: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func emptyDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("Failed to write database: %v", err)
	}
	return path
}

func TestRun_ExpansionScenario(t *testing.T) {
	path := emptyDatabase(t)

	runCommand(t, path, "addpool", "ex", "Expansion")
	out := runCommand(t, path, "--type", "0", "additem", "Foo")
	if !strings.Contains(out, "Added item 'Foo' with identifier '1'.") {
		t.Errorf("Expected Foo to get id 1, got %q", out)
	}
	runCommand(t, path, "--pool", "ex", "--rate", "1.0", "addpoolitem", "Foo")

	out = runCommand(t, path, "showpool", "ex")
	if !strings.Contains(out, "Rate '1.0': Foo\nTotal drop rate is '1.0'.\n") {
		t.Errorf("Unexpected showpool output: %q", out)
	}
	if strings.Contains(out, "saved") {
		t.Errorf("Expected showpool not to save, got %q", out)
	}

	runCommand(t, path, "additem", "NewFoo")
	runCommand(t, path, "--pool", "ex", "replacepoolitem", "Foo", "NewFoo")
	out = runCommand(t, path, "showpool", "ex")
	if !strings.Contains(out, "Rate '1.0': NewFoo\n") {
		t.Errorf("Expected NewFoo to replace Foo at rate 1.0, got %q", out)
	}
}

func TestRun_ItemSetScenario(t *testing.T) {
	path := emptyDatabase(t)
	runCommand(t, path, "additemset", "Bar", "Baz Weapon", "Qux Set")

	store, err := gacha.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	items := store.DB().Items()
	expected := map[gacha.ID]gacha.Item{
		1: {Name: "Bar", Type: "0", Rank: "2"},
		2: {Name: "Bar fragment", Type: "7"},
		3: {Name: "Baz Weapon", Type: "1", Rank: "3"},
		4: {Name: "Qux Set", Type: "8", Rank: "2"},
	}
	if len(items) != len(expected) {
		t.Fatalf("Expected %d items, got %d", len(expected), len(items))
	}
	for id, item := range expected {
		if got := items[id]; got == nil || *got != item {
			t.Errorf("Item %d: expected %+v, got %+v", id, item, got)
		}
	}
}

func TestRun_UnknownOperation(t *testing.T) {
	out := runCommand(t, filepath.Join(t.TempDir(), "missing.json"), "explode", "x")
	if strings.TrimSpace(out) != "Invalid operation 'explode'." {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestRun_MissingDatabase(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Editor{DatabasePath: filepath.Join(t.TempDir(), "missing.json")}
	if err := Run([]string{"listtables"}, cfg, &out, config.NewLogger(&out, "")); err == nil {
		t.Error("Expected error for a missing database")
	}
}

func TestRun_DatabaseFlagOverridesConfig(t *testing.T) {
	path := emptyDatabase(t)
	var out bytes.Buffer
	cfg := config.Editor{DatabasePath: filepath.Join(t.TempDir(), "missing.json")}
	if err := Run([]string{"--db", path, "addpool", "ex", "Expansion"}, cfg, &out, config.NewLogger(&out, "")); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read database: %v", err)
	}
	if !strings.Contains(string(data), "\"code\": \"ex\"") {
		t.Errorf("Expected pool saved to the --db path, got %s", data)
	}
}

func TestRun_ValidationErrorDoesNotSave(t *testing.T) {
	path := emptyDatabase(t)
	var out bytes.Buffer
	cfg := config.Editor{DatabasePath: path}
	err := Run([]string{"--pool", "ex", "--rate", "2", "addpoolitem", "Foo"}, cfg, &out, config.NewLogger(&out, ""))
	if err == nil {
		t.Fatal("Expected validation error")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "{}" {
		t.Errorf("Expected database untouched, got %s", data)
	}
}
