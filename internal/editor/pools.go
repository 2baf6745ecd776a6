package editor

import (
	"fmt"
	"strings"

	"github.com/hunterjsb/arabot/internal/gacha"
)

func (e *Editor) pool(code string) (*gacha.Pool, error) {
	_, pool, ok := e.db.PoolByCode(code)
	if !ok {
		return nil, fmt.Errorf("%w: The pool '%s' doesn't exist.", ErrPoolNotFound, code)
	}
	return pool, nil
}

// validateRate warns when the pool's rates no longer add up to 0 or 1. It never
// blocks the change that was just made.
func (e *Editor) validateRate(code string) {
	if total, ok := e.db.ValidateRate(code); !ok {
		e.log.Warnf("Pool '%s' has a total drop rate of %s.", code, gacha.FormatRate(total))
	}
}

func (e *Editor) addPool(op AddPool) error {
	if op.Code == "" || op.Name == "" {
		return invalid(`The code and the name must be specified. Eg. addpool ex "Expansion Battlesuit"`)
	}
	if _, _, ok := e.db.PoolByCode(op.Code); ok {
		return invalid("The specified pool already exists.")
	}

	pools := e.db.Pools()
	id := gacha.NextID(pools)
	pools[id] = gacha.NewPool(op.Code, op.Name)
	e.printf("Pool '%s' has been created with the identifier '%s'.\n", op.Code, id)
	return e.save()
}

func (e *Editor) removePool(op RemovePool) error {
	pools := e.db.Pools()
	changed := false
	for _, code := range op.Codes {
		id, _, ok := e.db.PoolByCode(code)
		if !ok {
			e.log.Warnf("The pool '%s' doesn't exist.", code)
			continue
		}
		delete(pools, id)
		changed = true
		e.printf("The pool '%s' has been removed.\n", code)
	}

	if !changed {
		return nil
	}
	return e.save()
}

// addPoolItem moves every named item into the bucket with the requested rate.
// An item already sitting in another bucket of the pool leaves it, so each item
// keeps a single rate per pool.
func (e *Editor) addPoolItem(op AddPoolItem) error {
	if !gacha.ValidRate(op.Rate) {
		return invalid("The drop rate must be between 0.0, inclusive and 1.0, inclusive.")
	}
	pool, err := e.pool(op.Pool)
	if err != nil {
		return err
	}

	rate := gacha.FormatRate(op.Rate)
	target := pool.Bucket(op.Rate)
	attached := target != nil
	if target == nil {
		target = &gacha.Bucket{Rate: op.Rate, Items: []gacha.ID{}}
	}

	inserted := 0
	for _, name := range op.Names {
		id, ok := e.db.ItemID(name)
		if !ok {
			e.log.Warnf("Item '%s' doesn't exist, hence it won't be added to the pool.", name)
			continue
		}
		if target.Contains(id) {
			e.log.Warnf("Item '%s' is already added to the pool with the same rate, hence it won't be added again.", name)
			continue
		}
		if previous, ok := pool.RemoveItem(id); ok {
			e.printf("Item '%s' has been removed with drop rate %s.\n", name, gacha.FormatRate(previous.Rate))
		}

		target.Items = append(target.Items, id)
		if !attached {
			pool.LootTable = append(pool.LootTable, target)
			attached = true
		}
		inserted++
		e.printf("Added item '%s' to the pool with drop rate %s.\n", name, rate)
	}

	e.printf("There are currently %d items in the pool '%s' with rate %s.\n", len(target.Items), op.Pool, rate)
	e.validateRate(op.Pool)

	if inserted == 0 {
		return nil
	}
	return e.save()
}

func (e *Editor) removePoolItem(op RemovePoolItem) error {
	pool, err := e.pool(op.Pool)
	if err != nil {
		return err
	}

	changed := false
	for _, name := range op.Names {
		id, ok := e.db.ItemID(name)
		if !ok {
			e.log.Warnf("Item '%s' doesn't exist, hence it won't be removed from the pool.", name)
			continue
		}
		if _, ok := pool.RemoveItem(id); !ok {
			e.log.Warnf("Item '%s' isn't in the pool, hence it won't be removed.", name)
			continue
		}
		changed = true
		e.printf("Item '%s' has been removed.\n", name)
	}

	e.validateRate(op.Pool)

	if !changed {
		return nil
	}
	return e.save()
}

func (e *Editor) replacePoolItem(op ReplacePoolItem) error {
	pool, err := e.pool(op.Pool)
	if err != nil {
		return err
	}

	changed := false
	for _, pair := range op.Pairs {
		if !e.replaceItem(pool, pair) {
			continue
		}
		changed = true
		if op.Fragments {
			e.replaceFragment(pool, pair)
		}
	}

	if !changed {
		return nil
	}
	return e.save()
}

func (e *Editor) replaceItem(pool *gacha.Pool, pair NamePair) bool {
	oldID, ok := e.db.ItemID(pair.Old)
	if !ok {
		e.log.Warnf("The item '%s' doesn't exist, hence it won't be replaced.", pair.Old)
		return false
	}
	newID, ok := e.db.ItemID(pair.New)
	if !ok {
		e.log.Warnf("The item '%s' doesn't exist, hence it won't replace the item '%s'.", pair.New, pair.Old)
		return false
	}
	if !pool.Replace(oldID, newID) {
		e.log.Warnf("The item '%s' cannot be found in the pool, hence it won't be replaced.", pair.Old)
		return false
	}
	e.printf("The item '%s' has been replaced by the item '%s'.\n", pair.Old, pair.New)
	return true
}

func (e *Editor) replaceFragment(pool *gacha.Pool, pair NamePair) bool {
	oldID, ok := e.db.FragmentID(pair.Old)
	if !ok {
		e.log.Warnf("The fragment for item '%s' doesn't exist, hence it won't be replaced.", pair.Old)
		return false
	}
	newID, ok := e.db.FragmentID(pair.New)
	if !ok {
		e.log.Warnf("The fragment for item '%s' doesn't exist, hence it won't replace any other fragments.", pair.New)
		return false
	}
	if !pool.Replace(oldID, newID) {
		e.log.Warnf("The fragment of valkyrie '%s' cannot be found in the pool, hence it won't be replaced.", pair.Old)
		return false
	}
	e.printf("The fragment of valkyrie '%s' has been replaced by the fragment of valkyrie '%s'.\n", pair.Old, pair.New)
	return true
}

func (e *Editor) showPool(op ShowPool) error {
	pool, err := e.pool(op.Code)
	if err != nil {
		return err
	}

	for _, bucket := range pool.LootTable {
		names := make([]string, 0, len(bucket.Items))
		for _, id := range bucket.Items {
			names = append(names, e.db.ItemName(id))
		}
		e.printf("Rate '%s': %s\n", gacha.FormatRate(bucket.Rate), strings.Join(names, ", "))
	}
	e.printf("Total drop rate is '%s'.\n", gacha.FormatRate(e.db.TotalRate(op.Code)))
	return nil
}

func (e *Editor) togglePool(op TogglePool) error {
	pool, err := e.pool(op.Code)
	if err != nil {
		return err
	}

	pool.Available = !pool.Available
	if err := e.save(); err != nil {
		return err
	}

	state := "available"
	if !pool.Available {
		state = "unavailable"
	}
	e.printf("Pool '%s' is now %s.\n", op.Code, state)
	return nil
}

func (e *Editor) clonePool(op ClonePool) error {
	source, err := e.pool(op.Source)
	if err != nil {
		return err
	}
	if _, _, ok := e.db.PoolByCode(op.Code); ok {
		return invalid(fmt.Sprintf("The pool '%s' already exists.", op.Code))
	}

	clone := source.Clone()
	clone.Code = op.Code
	clone.Name = op.Name

	pools := e.db.Pools()
	id := gacha.NextID(pools)
	pools[id] = clone
	if err := e.save(); err != nil {
		return err
	}
	e.printf("Pool '%s' has been created with the identifier '%s'.\n", op.Code, id)
	return nil
}
