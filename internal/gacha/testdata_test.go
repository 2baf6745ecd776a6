package gacha

// fixture builds a small database: three items and one pool with two buckets.
func fixture() *Database {
	db := NewDatabase()
	items := db.Items()
	items[1] = &Item{Name: "Foo", Type: TypeValkyrie, Rank: "2"}
	items[2] = &Item{Name: "Foo fragment", Type: TypeFragment}
	items[3] = &Item{Name: "Bar Weapon", Type: TypeWeapon, Rank: "3"}

	pools := db.Pools()
	pools[1] = &Pool{
		Name:      "Expansion",
		Code:      "ex",
		Available: true,
		LootTable: []*Bucket{
			{Rate: 0.1, Items: []ID{1, 2}},
			{Rate: 0.9, Items: []ID{3}},
		},
	}
	return db
}
