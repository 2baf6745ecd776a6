package gacha

import (
	"iter"
	"strings"

	"golang.org/x/text/cases"
)

// FindIDs yields, in ascending order, the ids of the records whose field equals
// value (exact) or contains it ignoring case (not exact).
func FindIDs[T Record](table Table[T], field, value string, exact bool) iter.Seq[ID] {
	match := func(text string) bool { return text == value }
	if !exact {
		fold := cases.Fold()
		needle := fold.String(value)
		match = func(text string) bool {
			return strings.Contains(fold.String(text), needle)
		}
	}

	return func(yield func(ID) bool) {
		for _, id := range table.IDs() {
			record, ok := table[id]
			if !ok || record == nil {
				continue
			}
			if match((*record).Field(field)) && !yield(id) {
				return
			}
		}
	}
}

// FindFirstID returns the first id yielded by FindIDs, or def when nothing matches.
func FindFirstID[T Record](table Table[T], field, value string, exact bool, def ID) ID {
	for id := range FindIDs(table, field, value, exact) {
		return id
	}
	return def
}

// FindIDs searches the named table. Unknown or absent tables yield nothing.
func (db *Database) FindIDs(table, field, value string, exact bool) iter.Seq[ID] {
	switch table {
	case TableItems:
		return FindIDs(db.items, field, value, exact)
	case TablePools:
		return FindIDs(db.pools, field, value, exact)
	}
	return func(func(ID) bool) {}
}

// ItemID finds the first item with exactly the given name
func (db *Database) ItemID(name string) (ID, bool) {
	id := FindFirstID(db.items, "name", name, true, 0)
	return id, id != 0
}

// FragmentID finds the fragment, or failing that the soul, of the named valkyrie.
func (db *Database) FragmentID(valkyrie string) (ID, bool) {
	if id, ok := db.ItemID(valkyrie + " fragment"); ok {
		return id, true
	}
	return db.ItemID(valkyrie + " soul")
}

// PoolByCode finds the pool with the given code
func (db *Database) PoolByCode(code string) (ID, *Pool, bool) {
	id := FindFirstID(db.pools, "code", code, true, 0)
	if id == 0 {
		return 0, nil, false
	}
	return id, db.pools[id], true
}

// EachPool yields the pools in ascending id order without creating the table.
func (db *Database) EachPool() iter.Seq2[ID, *Pool] {
	return func(yield func(ID, *Pool) bool) {
		for _, id := range db.pools.IDs() {
			if !yield(id, db.pools[id]) {
				return
			}
		}
	}
}
