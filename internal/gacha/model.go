package gacha

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Table names used by the gacha database
const (
	TableItems     = "items"
	TableItemTypes = "item_types"
	TablePools     = "pools"
)

// Item type codes
const (
	TypeValkyrie = "0"
	TypeWeapon   = "1"
	TypeSoul     = "2"
	TypeFragment = "7"
	TypeStigmata = "8"
)

// ID is the positive integer key of a record. It is stored as a string in JSON.
type ID int

// ParseID parses a string-encoded record identifier
func ParseID(s string) (ID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid identifier %q: must be positive", s)
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// MarshalText encodes the identifier as its decimal string
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a decimal string identifier, rejecting non-positive values
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Record is implemented by every table row that can be searched by field name.
type Record interface {
	Field(name string) string
}

// Item is a single obtainable game item
type Item struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	Rank             string `json:"rank,omitempty"`
	IsSingleStigmata bool   `json:"is_single_stigmata,omitempty"`

	// Extra holds fields this package does not model. They are written back
	// after the declared fields.
	Extra map[string]json.RawMessage `json:"-"`
}

type itemFields Item

var itemKeys = []string{"name", "type", "rank", "is_single_stigmata"}

// Field returns the value of the named field, or "" when the item has no such field.
func (i Item) Field(name string) string {
	switch name {
	case "name":
		return i.Name
	case "type":
		return i.Type
	case "rank":
		return i.Rank
	case "is_single_stigmata":
		if i.IsSingleStigmata {
			return "true"
		}
		return ""
	}
	return extraField(i.Extra, name)
}

// UnmarshalJSON decodes the declared fields and keeps the rest in Extra.
func (i *Item) UnmarshalJSON(data []byte) error {
	var fields itemFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := extraFields(data, itemKeys)
	if err != nil {
		return err
	}
	*i = Item(fields)
	i.Extra = extra
	return nil
}

// MarshalJSON encodes the declared fields followed by Extra.
func (i Item) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(itemFields(i))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, i.Extra)
}

// Pool is a banner: a named loot table made of rate buckets
type Pool struct {
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Available bool      `json:"available"`
	LootTable []*Bucket `json:"loot_table"`

	Extra map[string]json.RawMessage `json:"-"`
}

type poolFields Pool

var poolKeys = []string{"name", "code", "available", "loot_table"}

// Field returns the value of the named field, or "" when the pool has no such field.
func (p Pool) Field(name string) string {
	switch name {
	case "name":
		return p.Name
	case "code":
		return p.Code
	case "available":
		return strconv.FormatBool(p.Available)
	case "loot_table":
		return ""
	}
	return extraField(p.Extra, name)
}

// UnmarshalJSON decodes the declared fields and keeps the rest in Extra.
func (p *Pool) UnmarshalJSON(data []byte) error {
	var fields poolFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := extraFields(data, poolKeys)
	if err != nil {
		return err
	}
	*p = Pool(fields)
	p.Extra = extra
	return nil
}

// MarshalJSON encodes the declared fields followed by Extra.
func (p Pool) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(poolFields(p))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, p.Extra)
}

// extraFields returns the members of the object in data that are not in known.
func extraFields(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, key := range known {
		delete(all, key)
	}
	if len(all) == 0 {
		return nil, nil
	}
	for key, value := range all {
		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err != nil {
			return nil, err
		}
		all[key] = buf.Bytes()
	}
	return all, nil
}

// appendExtra splices extra members, sorted by key, into the encoded object.
func appendExtra(object []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return object, nil
	}
	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var buf bytes.Buffer
	buf.Write(object[:len(object)-1])
	for _, key := range keys {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value := extra[key]
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// extraField renders an unmodelled field for lookups: strings unquoted, any
// other JSON value as written.
func extraField(extra map[string]json.RawMessage, name string) string {
	raw, ok := extra[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Bucket groups the items of a pool that share one drop rate
type Bucket struct {
	Rate  float64 `json:"rate"`
	Items []ID    `json:"items"`
}

// Contains reports whether the bucket holds the item
func (b *Bucket) Contains(id ID) bool {
	return slices.Contains(b.Items, id)
}

func (b *Bucket) remove(id ID) bool {
	idx := slices.Index(b.Items, id)
	if idx < 0 {
		return false
	}
	b.Items = slices.Delete(b.Items, idx, idx+1)
	return true
}

// Table maps record identifiers to records. It encodes with ids in ascending order.
type Table[T any] map[ID]*T

// IDs returns the identifiers of the table in ascending order
func (t Table[T]) IDs() []ID {
	ids := make([]ID, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// MarshalJSON writes the records keyed by id, in ascending id order.
func (t Table[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range t.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id.String())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(t[id])
		if err != nil {
			return nil, fmt.Errorf("encode record %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Database is the whole gacha document: the item and pool tables plus any other
// tables, which are kept verbatim.
type Database struct {
	items Table[Item]
	pools Table[Pool]
	// raw holds item_types and unknown tables untouched
	raw    map[string]json.RawMessage
	tables []string
}

// NewDatabase returns an empty database with no tables
func NewDatabase() *Database {
	return &Database{raw: make(map[string]json.RawMessage)}
}

// TableNames lists the tables in document order
func (db *Database) TableNames() []string {
	return slices.Clone(db.tables)
}

// Items returns the item table, creating it when absent
func (db *Database) Items() Table[Item] {
	if db.items == nil {
		db.items = Table[Item]{}
		db.track(TableItems)
	}
	return db.items
}

// Pools returns the pool table, creating it when absent
func (db *Database) Pools() Table[Pool] {
	if db.pools == nil {
		db.pools = Table[Pool]{}
		db.track(TablePools)
	}
	return db.pools
}

func (db *Database) track(name string) {
	if !slices.Contains(db.tables, name) {
		db.tables = append(db.tables, name)
	}
}

// ItemName resolves an item id to its display name
func (db *Database) ItemName(id ID) string {
	if item, ok := db.items[id]; ok && item != nil {
		return item.Name
	}
	return "Unknown item"
}

// UnmarshalJSON decodes the document, remembering the order of its tables.
func (db *Database) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: document must be a JSON object", ErrMalformedDatabase)
	}

	*db = Database{raw: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode table %s: %w", name, err)
		}

		switch name {
		case TableItems:
			db.items = Table[Item]{}
			if err := json.Unmarshal(raw, &db.items); err != nil {
				return fmt.Errorf("decode table %s: %w", name, err)
			}
		case TablePools:
			db.pools = Table[Pool]{}
			if err := json.Unmarshal(raw, &db.pools); err != nil {
				return fmt.Errorf("decode table %s: %w", name, err)
			}
		default:
			db.raw[name] = raw
		}
		db.track(name)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return db.normalize()
}

// MarshalJSON encodes the tables in document order.
func (db *Database) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range db.tables {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}

		var value []byte
		switch name {
		case TableItems:
			value, err = db.items.MarshalJSON()
		case TablePools:
			value, err = db.pools.MarshalJSON()
		default:
			value = db.raw[name]
			if len(value) == 0 {
				value = []byte("{}")
			}
		}
		if err != nil {
			return nil, fmt.Errorf("encode table %s: %w", name, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// normalize validates loaded records and fills in missing collections.
func (db *Database) normalize() error {
	for id, item := range db.items {
		if item == nil {
			return fmt.Errorf("%w: item %s is null", ErrMalformedDatabase, id)
		}
	}
	for id, pool := range db.pools {
		if pool == nil {
			return fmt.Errorf("%w: pool %s is null", ErrMalformedDatabase, id)
		}
		for _, bucket := range pool.LootTable {
			if bucket != nil && !ValidRate(bucket.Rate) {
				return fmt.Errorf("%w: pool %s has a bucket with rate %v", ErrMalformedDatabase, id, bucket.Rate)
			}
		}
		pool.normalize()
	}
	return nil
}
