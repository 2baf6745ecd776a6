package editor

import (
	"encoding/json"
	"slices"

	"github.com/hunterjsb/arabot/internal/gacha"
)

// createItem stores a new item under the next free id and returns that id.
// Names are not deduplicated.
func (e *Editor) createItem(name, itemType, rank string, single bool) gacha.ID {
	items := e.db.Items()
	id := gacha.NextID(items)
	items[id] = &gacha.Item{
		Name:             name,
		Type:             itemType,
		Rank:             rank,
		IsSingleStigmata: single,
	}
	e.printf("Added item '%s' with identifier '%s'.\n", name, id)
	return id
}

func (e *Editor) addItem(op AddItem) error {
	if op.Type == "" {
		return invalid("The item type must be specified.")
	}
	for _, name := range op.Names {
		e.createItem(name, op.Type, op.Rank, op.Single)
	}
	return e.save()
}

func (e *Editor) findItem(op FindItem) error {
	if op.Field == "" {
		return invalid("The field name must be specified.")
	}
	items := e.db.Items()
	for _, query := range op.Queries {
		for id := range gacha.FindIDs(items, op.Field, query, false) {
			data, err := json.Marshal(items[id])
			if err != nil {
				return err
			}
			e.printf("ID: %s\nData: %s\n", id, data)
		}
	}
	return nil
}

// deleteItem removes items by id, or by exact field value when a field is given.
// Pool entries that pointed at a deleted item are left in place.
func (e *Editor) deleteItem(op DeleteItem) error {
	items := e.db.Items()
	changed := false

	for _, key := range op.Keys {
		if op.Field != "" {
			// collect first: the table is modified while we go
			for _, id := range slices.Collect(gacha.FindIDs(items, op.Field, key, true)) {
				delete(items, id)
				changed = true
				e.printf("Deleted item '%s'.\n", id)
			}
			continue
		}

		id, err := gacha.ParseID(key)
		if err != nil {
			e.log.Warnf("'%s' is not an item identifier; use --field to delete by field value.", key)
			continue
		}
		if _, ok := items[id]; !ok {
			e.log.Warnf("Item '%s' doesn't exist, hence it won't be deleted.", key)
			continue
		}
		delete(items, id)
		changed = true
		e.printf("Deleted item '%s'.\n", id)
	}

	if !changed {
		return nil
	}
	return e.save()
}

func (e *Editor) addItemSet(op AddItemSet) error {
	if op.Valkyrie == "" || op.Weapon == "" || op.Stigmata == "" {
		return invalid("You must specify a valid itemset: valkyrie, weapon, stigmata.")
	}
	rank := op.Rank
	if rank == "" {
		rank = "2"
	}

	e.createItem(op.Valkyrie, gacha.TypeValkyrie, rank, false)
	if op.Awakened {
		e.createItem(op.Valkyrie+" soul", gacha.TypeSoul, "", false)
	} else {
		e.createItem(op.Valkyrie+" fragment", gacha.TypeFragment, "", false)
	}
	e.createItem(op.Weapon, gacha.TypeWeapon, "3", false)
	e.createItem(op.Stigmata, gacha.TypeStigmata, rank, false)
	return e.save()
}
