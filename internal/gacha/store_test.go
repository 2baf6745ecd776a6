package gacha

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const sampleDocument = `{
	"items": {
		"10": {"name": "Ten", "type": "1", "rank": "3"},
		"2": {"name": "Two", "type": "8", "is_single_stigmata": true}
	},
	"item_types": {"0": {"name": "Valkyrie"}},
	"pools": {
		"1": {"name": "Expansion", "code": "ex", "available": true, "loot_table": [
			{"rate": 0.5, "items": ["2"]},
			{"rate": 0.25, "items": []},
			{"rate": 0.3, "items": ["10"]}
		]},
		"2": {"name": "Empty", "code": "empty", "available": false}
	}
}`

func writeDatabase(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write database: %v", err)
	}
	return path
}

func TestOpen_Success(t *testing.T) {
	store, err := Open(writeDatabase(t, sampleDocument))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	db := store.DB()

	if got := strings.Join(db.TableNames(), ","); got != "items,item_types,pools" {
		t.Errorf("Expected tables in document order, got %s", got)
	}
	if item := db.Items()[2]; item == nil || !item.IsSingleStigmata {
		t.Errorf("Expected item 2 to be a single stigmata, got %+v", item)
	}

	ex := db.Pools()[1]
	if len(ex.LootTable) != 2 {
		t.Fatalf("Expected empty bucket to be dropped, got %d buckets", len(ex.LootTable))
	}
	if ex.LootTable[1].Items[0] != 10 {
		t.Errorf("Expected second bucket to hold item 10, got %v", ex.LootTable[1].Items)
	}

	empty := db.Pools()[2]
	if empty.LootTable == nil || len(empty.LootTable) != 0 {
		t.Errorf("Expected missing loot table to normalize to empty, got %v", empty.LootTable)
	}
}

func TestOpen_NormalizesLootTables(t *testing.T) {
	tests := []struct {
		name      string
		lootTable string
		expected  map[float64][]ID
	}{
		{
			name:      "equal rates are merged",
			lootTable: `[{"rate": 0.5, "items": ["1"]}, {"rate": 0.500001, "items": ["2"]}]`,
			expected:  map[float64][]ID{0.5: {1, 2}},
		},
		{
			name:      "item in two buckets keeps the first",
			lootTable: `[{"rate": 0.4, "items": ["1", "2"]}, {"rate": 0.6, "items": ["1", "3"]}]`,
			expected:  map[float64][]ID{0.4: {1, 2}, 0.6: {3}},
		},
		{
			name:      "duplicate inside a bucket",
			lootTable: `[{"rate": 1.0, "items": ["1", "1", "2"]}]`,
			expected:  map[float64][]ID{1.0: {1, 2}},
		},
		{
			name:      "bucket emptied by deduplication is dropped",
			lootTable: `[{"rate": 0.5, "items": ["1"]}, {"rate": 0.5, "items": ["1"]}, {"rate": 0.2, "items": ["1"]}]`,
			expected:  map[float64][]ID{0.5: {1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `{"pools": {"1": {"name": "Expansion", "code": "ex", "available": true, "loot_table": ` + tt.lootTable + `}}}`
			store, err := Open(writeDatabase(t, content))
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}

			pool := store.DB().Pools()[1]
			if len(pool.LootTable) != len(tt.expected) {
				t.Fatalf("Expected %d buckets, got %d", len(tt.expected), len(pool.LootTable))
			}
			for _, bucket := range pool.LootTable {
				if !slices.Equal(bucket.Items, tt.expected[bucket.Rate]) {
					t.Errorf("Expected bucket %v to hold %v, got %v", bucket.Rate, tt.expected[bucket.Rate], bucket.Items)
				}
			}
		})
	}
}

func TestOpen_RemovedItemLeavesPool(t *testing.T) {
	content := `{"pools": {"1": {"name": "Expansion", "code": "ex", "available": true, "loot_table": [
		{"rate": 0.5, "items": ["1"]},
		{"rate": 0.5, "items": ["1"]}
	]}}}`
	store, err := Open(writeDatabase(t, content))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	pool := store.DB().Pools()[1]
	if _, ok := pool.RemoveItem(1); !ok {
		t.Fatal("Expected item 1 to be removed")
	}
	if bucket := pool.BucketOf(1); bucket != nil {
		t.Errorf("Expected item 1 to be gone from the pool, still in bucket %v", bucket.Rate)
	}
}

func TestSave_KeepsUnknownRecordFields(t *testing.T) {
	content := `{
		"items": {"1": {"name": "Foo", "type": "0", "image": "foo.png", "tags": ["a", "b"]}},
		"pools": {"1": {"name": "Expansion", "code": "ex", "available": true, "loot_table": [], "banner": {"url": "ex.png"}}}
	}`
	path := writeDatabase(t, content)
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	db := store.DB()
	if got := db.Items()[1].Field("image"); got != "foo.png" {
		t.Errorf("Expected image field 'foo.png', got %q", got)
	}
	db.Items()[2] = &Item{Name: "Bar", Type: TypeWeapon}
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	item := reloaded.DB().Items()[1]
	if item.Name != "Foo" || item.Field("image") != "foo.png" {
		t.Errorf("Expected image to survive a save, got %+v", item)
	}
	if got := string(item.Extra["tags"]); got != `["a","b"]` {
		t.Errorf("Expected tags to survive a save, got %s", got)
	}
	pool := reloaded.DB().Pools()[1]
	if got := pool.Field("banner"); got != `{"url":"ex.png"}` {
		t.Errorf("Expected banner to survive a save, got %q", got)
	}
	if _, ok := reloaded.DB().Items()[2].Extra["name"]; ok {
		t.Error("Expected declared fields to stay out of Extra")
	}
}

func TestOpen_FileNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Expected error for missing database")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestOpen_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{"items": `},
		{"not an object", `[1, 2]`},
		{"non numeric id", `{"items": {"abc": {"name": "x", "type": "0"}}}`},
		{"zero id", `{"items": {"0": {"name": "x", "type": "0"}}}`},
		{"null item", `{"items": {"1": null}}`},
		{"rate above one", `{"pools": {"1": {"code": "ex", "loot_table": [{"rate": 1.5, "items": ["1"]}]}}}`},
		{"negative rate", `{"pools": {"1": {"code": "ex", "loot_table": [{"rate": -0.1, "items": ["1"]}]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(writeDatabase(t, tt.content)); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestSave_OrderingAndIndentation(t *testing.T) {
	path := writeDatabase(t, sampleDocument)
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved database: %v", err)
	}
	saved := string(data)

	if !strings.HasPrefix(saved, "{\n\t\"items\": {\n\t\t\"2\": {") {
		t.Errorf("Expected tab indentation with ids in numeric order, got:\n%s", saved)
	}
	if strings.Index(saved, `"2":`) > strings.Index(saved, `"10":`) {
		t.Error("Expected id 2 to be written before id 10")
	}
	if strings.Index(saved, `"item_types"`) > strings.Index(saved, `"pools"`) {
		t.Error("Expected tables to keep document order")
	}
	if !strings.Contains(saved, `"Valkyrie"`) {
		t.Error("Expected item_types to be preserved")
	}
	if !strings.Contains(saved, "\"items\": [\n\t\t\t\t\t\t\"2\"\n") {
		t.Errorf("Expected bucket items to be saved as string ids, got:\n%s", saved)
	}

	// A second load must see the same records
	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if got := reloaded.DB().Items()[10].Name; got != "Ten" {
		t.Errorf("Expected item 10 to survive a save, got %q", got)
	}
}

func TestSave_NewTablesAreAppended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	store := NewStore(path, nil)
	store.DB().Pools()[1] = NewPool("ex", "Expansion")
	store.DB().Items()[1] = &Item{Name: "Foo", Type: TypeValkyrie}

	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if got := strings.Join(reloaded.DB().TableNames(), ","); got != "pools,items" {
		t.Errorf("Expected tables in creation order, got %s", got)
	}
}
