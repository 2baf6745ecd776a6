package gacha

// NextID returns the identifier for a new record: one past the largest id in
// the table, or 1 for an empty table. Gaps left by deletions are never filled.
func NextID[T any](table Table[T]) ID {
	var highest ID
	for id := range table {
		highest = max(highest, id)
	}
	return highest + 1
}

// NextID allocates from the named table. Unknown tables start at 1.
func (db *Database) NextID(table string) ID {
	switch table {
	case TableItems:
		return NextID(db.items)
	case TablePools:
		return NextID(db.pools)
	}
	return 1
}
