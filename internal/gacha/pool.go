package gacha

import (
	"maps"
	"slices"
)

// NewPool returns an available pool with an empty loot table
func NewPool(code, name string) *Pool {
	return &Pool{
		Name:      name,
		Code:      code,
		Available: true,
		LootTable: []*Bucket{},
	}
}

// Bucket returns the bucket whose rate matches, or nil.
func (p *Pool) Bucket(rate float64) *Bucket {
	for _, bucket := range p.LootTable {
		if RatesEqual(bucket.Rate, rate) {
			return bucket
		}
	}
	return nil
}

// BucketOf returns the bucket holding the item, or nil.
func (p *Pool) BucketOf(id ID) *Bucket {
	for _, bucket := range p.LootTable {
		if bucket.Contains(id) {
			return bucket
		}
	}
	return nil
}

// RemoveItem takes the item out of whichever bucket holds it, dropping the
// bucket when it becomes empty. It returns the bucket the item was in.
func (p *Pool) RemoveItem(id ID) (*Bucket, bool) {
	for idx, bucket := range p.LootTable {
		if !bucket.remove(id) {
			continue
		}
		if len(bucket.Items) == 0 {
			p.LootTable = slices.Delete(p.LootTable, idx, idx+1)
		}
		return bucket, true
	}
	return nil, false
}

// Replace substitutes newID for oldID inside the bucket that holds oldID,
// keeping that bucket's rate. If newID already sits in another bucket it is
// moved. It reports false when oldID is not in the pool.
func (p *Pool) Replace(oldID, newID ID) bool {
	bucket := p.BucketOf(oldID)
	if bucket == nil {
		return false
	}
	if oldID == newID {
		return true
	}
	if other := p.BucketOf(newID); other != nil && other != bucket {
		p.RemoveItem(newID)
	}
	bucket.remove(oldID)
	if !bucket.Contains(newID) {
		bucket.Items = append(bucket.Items, newID)
	}
	return true
}

// Clone returns a deep copy of the pool sharing no buckets or item lists.
func (p *Pool) Clone() *Pool {
	clone := *p
	clone.Extra = maps.Clone(p.Extra)
	clone.LootTable = make([]*Bucket, 0, len(p.LootTable))
	for _, bucket := range p.LootTable {
		clone.LootTable = append(clone.LootTable, &Bucket{
			Rate:  bucket.Rate,
			Items: slices.Clone(bucket.Items),
		})
	}
	return &clone
}

// normalize restores the loot table invariants on loaded data: buckets with
// equal rates are merged into the first one, an item keeps only its first
// occurrence in the pool, and empty buckets are dropped.
func (p *Pool) normalize() {
	seen := make(map[ID]bool)
	table := make([]*Bucket, 0, len(p.LootTable))
	for _, bucket := range p.LootTable {
		if bucket == nil {
			continue
		}
		target := bucket
		for _, kept := range table {
			if RatesEqual(kept.Rate, bucket.Rate) {
				target = kept
				break
			}
		}

		items := bucket.Items
		if target == bucket {
			bucket.Items = make([]ID, 0, len(items))
			table = append(table, bucket)
		}
		for _, id := range items {
			if seen[id] {
				continue
			}
			seen[id] = true
			target.Items = append(target.Items, id)
		}
	}

	p.LootTable = slices.DeleteFunc(table, func(b *Bucket) bool {
		return len(b.Items) == 0
	})
}
