package gacha

import "testing"

func TestNextID_EmptyTable(t *testing.T) {
	db := NewDatabase()
	if id := db.NextID(TableItems); id != 1 {
		t.Errorf("Expected 1 for an absent table, got %d", id)
	}
	db.Items()
	if id := db.NextID(TableItems); id != 1 {
		t.Errorf("Expected 1 for an empty table, got %d", id)
	}
	if id := db.NextID(TableItemTypes); id != 1 {
		t.Errorf("Expected 1 for an unknown table, got %d", id)
	}
}

func TestNextID_DoesNotReuseGaps(t *testing.T) {
	const n = 10
	for k := ID(2); k < n; k++ {
		table := Table[Item]{}
		for id := ID(1); id <= n; id++ {
			table[id] = &Item{Name: id.String()}
		}
		delete(table, k)

		if got := NextID(table); got != n+1 {
			t.Errorf("After deleting %d expected %d, got %d", k, n+1, got)
		}
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("42"); err != nil || id != 42 {
		t.Errorf("Expected 42, got %d (%v)", id, err)
	}
	for _, bad := range []string{"", "abc", "0", "-3", "1.5"} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}
