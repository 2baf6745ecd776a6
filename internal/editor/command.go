package editor

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Operation is one editor command with its arguments. The set of operations is
// closed: only the types in this file implement it.
type Operation interface {
	Name() string
	mutates() bool
}

// ListTables prints the names of the database tables
type ListTables struct{}

// AddItem creates one item per name
type AddItem struct {
	Names  []string
	Type   string
	Rank   string
	Single bool
}

// FindItem prints every item whose field contains one of the queries
type FindItem struct {
	Field   string
	Queries []string
}

// DeleteItem removes items by id, or by exact field value when Field is set.
type DeleteItem struct {
	Field string
	Keys  []string
}

// AddItemSet creates a valkyrie with its fragment or soul, weapon and stigmata.
type AddItemSet struct {
	Valkyrie string
	Weapon   string
	Stigmata string
	Rank     string
	Awakened bool
}

// AddPool creates an empty pool
type AddPool struct {
	Code string
	Name string
}

// RemovePool deletes pools by code
type RemovePool struct {
	Codes []string
}

// AddPoolItem puts items into the bucket of a pool with the given rate
type AddPoolItem struct {
	Pool  string
	Rate  float64
	Names []string
}

// RemovePoolItem takes items out of a pool
type RemovePoolItem struct {
	Pool  string
	Names []string
}

// NamePair is an item to replace and its replacement
type NamePair struct {
	Old string
	New string
}

// ReplacePoolItem substitutes items inside a pool, keeping their rates.
type ReplacePoolItem struct {
	Pool      string
	Fragments bool
	Pairs     []NamePair
}

// ShowPool prints the loot table of a pool
type ShowPool struct {
	Code string
}

// TogglePool flips the availability of a pool
type TogglePool struct {
	Code string
}

// ClonePool copies a pool under a new code and name
type ClonePool struct {
	Source string
	Code   string
	Name   string
}

func (ListTables) Name() string      { return "listtables" }
func (AddItem) Name() string         { return "additem" }
func (FindItem) Name() string        { return "finditem" }
func (DeleteItem) Name() string      { return "deleteitem" }
func (AddItemSet) Name() string      { return "additemset" }
func (AddPool) Name() string         { return "addpool" }
func (RemovePool) Name() string      { return "removepool" }
func (AddPoolItem) Name() string     { return "addpoolitem" }
func (RemovePoolItem) Name() string  { return "removepoolitem" }
func (ReplacePoolItem) Name() string { return "replacepoolitem" }
func (ShowPool) Name() string        { return "showpool" }
func (TogglePool) Name() string      { return "togglepool" }
func (ClonePool) Name() string       { return "clonepool" }

func (ListTables) mutates() bool      { return false }
func (AddItem) mutates() bool         { return true }
func (FindItem) mutates() bool        { return false }
func (DeleteItem) mutates() bool      { return true }
func (AddItemSet) mutates() bool      { return true }
func (AddPool) mutates() bool         { return true }
func (RemovePool) mutates() bool      { return true }
func (AddPoolItem) mutates() bool     { return true }
func (RemovePoolItem) mutates() bool  { return true }
func (ReplacePoolItem) mutates() bool { return true }
func (ShowPool) mutates() bool        { return false }
func (TogglePool) mutates() bool      { return true }
func (ClonePool) mutates() bool       { return true }

// Flags holds the command-line options shared by every operation
type Flags struct {
	Database  string
	Type      string
	Rank      string
	Single    bool
	Awakened  bool
	Field     string
	Pool      string
	Rate      string
	Fragments bool
}

// ParseArgs parses the command line. Flags may appear before, between or after
// the operation name and its names, e.g.
//
//	--pool ex --rate 0.015 addpoolitem "ARC Serratus" "Blaze Destroyer"
//
// Arguments after "--" are taken as names.
func ParseArgs(args []string) (Flags, []string, error) {
	flags := Flags{Type: "0"}

	fs := flag.NewFlagSet("gachaedit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&flags.Database, "db", "", "database file (overrides GACHA_DATABASE)")
	fs.StringVar(&flags.Type, "type", flags.Type, "item type")
	fs.StringVar(&flags.Rank, "rank", "", "item rank")
	fs.BoolVar(&flags.Single, "single", false, "item is a single (non-set) stigmata")
	fs.BoolVar(&flags.Awakened, "awakened", false, "valkyrie is awakened (soul instead of fragment)")
	fs.StringVar(&flags.Field, "field", "", "item field to match")
	fs.StringVar(&flags.Pool, "pool", "", "pool code")
	fs.StringVar(&flags.Rate, "rate", "", "drop rate")
	fs.BoolVar(&flags.Fragments, "fragments", false, "also replace valkyrie fragments/souls")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return Flags{}, nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		rest := fs.Args()
		// after a "--" terminator everything is a name, even "-x"
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			positional = append(positional, rest...)
			break
		}
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}

	return flags, positional, nil
}

// Parse builds the operation named by the first positional argument, checking
// that it has the arguments it needs.
func Parse(flags Flags, positional []string) (Operation, error) {
	if len(positional) == 0 {
		return nil, fmt.Errorf("%w: an operation must be specified", ErrInvalidArgument)
	}
	name, names := positional[0], positional[1:]

	switch name {
	case "listtables":
		return ListTables{}, nil

	case "additem":
		if flags.Type == "" {
			return nil, invalid("The item type must be specified.")
		}
		if len(names) == 0 {
			return nil, invalid("At least one item name must be specified.")
		}
		return AddItem{Names: names, Type: flags.Type, Rank: flags.Rank, Single: flags.Single}, nil

	case "finditem":
		if flags.Field == "" {
			return nil, invalid("The field name must be specified.")
		}
		return FindItem{Field: flags.Field, Queries: names}, nil

	case "deleteitem":
		return DeleteItem{Field: flags.Field, Keys: names}, nil

	case "additemset":
		if len(names) != 3 {
			return nil, invalid("You must specify a valid itemset: valkyrie, weapon, stigmata.")
		}
		return AddItemSet{
			Valkyrie: names[0],
			Weapon:   names[1],
			Stigmata: names[2],
			Rank:     flags.Rank,
			Awakened: flags.Awakened,
		}, nil

	case "addpool":
		if len(names) < 2 {
			return nil, invalid(`The code and the name must be specified. Eg. addpool ex "Expansion Battlesuit"`)
		}
		return AddPool{Code: names[0], Name: names[1]}, nil

	case "removepool":
		return RemovePool{Codes: names}, nil

	case "addpoolitem":
		if flags.Pool == "" {
			return nil, invalid("The pool must be specified.")
		}
		rate, err := parseRate(flags.Rate)
		if err != nil {
			return nil, err
		}
		return AddPoolItem{Pool: flags.Pool, Rate: rate, Names: names}, nil

	case "removepoolitem":
		if flags.Pool == "" {
			return nil, invalid("The pool must be specified.")
		}
		return RemovePoolItem{Pool: flags.Pool, Names: names}, nil

	case "replacepoolitem":
		if flags.Pool == "" {
			return nil, invalid("The pool must be specified.")
		}
		if len(names)%2 != 0 {
			return nil, invalid("You must specify name pairs.")
		}
		pairs := make([]NamePair, 0, len(names)/2)
		for i := 0; i < len(names); i += 2 {
			pairs = append(pairs, NamePair{Old: names[i], New: names[i+1]})
		}
		return ReplacePoolItem{Pool: flags.Pool, Fragments: flags.Fragments, Pairs: pairs}, nil

	case "showpool":
		if len(names) == 0 {
			return nil, invalid("The pool code must be specified.")
		}
		return ShowPool{Code: names[0]}, nil

	case "togglepool":
		if len(names) == 0 {
			return nil, invalid("The pool code must be specified.")
		}
		return TogglePool{Code: names[0]}, nil

	case "clonepool":
		if len(names) != 3 {
			return nil, invalid("You must specify the source and the target pool identifiers, and the target pool name.")
		}
		return ClonePool{Source: names[0], Code: names[1], Name: names[2]}, nil
	}

	return nil, &UnknownOperationError{Name: name}
}

func parseRate(s string) (float64, error) {
	if s == "" {
		return 0, invalid("The drop rate must be specified.")
	}
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(rate) {
		return 0, invalid(fmt.Sprintf("The drop rate %q is not a number.", s))
	}
	if rate < 0 || rate > 1 {
		return 0, invalid("The drop rate must be between 0.0, inclusive and 1.0, inclusive.")
	}
	return rate, nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// IsUnknownOperation reports whether err is caused by an unrecognized operation name.
func IsUnknownOperation(err error) bool {
	var target *UnknownOperationError
	return errors.As(err, &target)
}
