package editor

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hunterjsb/arabot/internal/config"
	"github.com/hunterjsb/arabot/internal/gacha"
)

// Store gives the editor a database to mutate and a way to persist it.
type Store interface {
	DB() *gacha.Database
	Save() error
}

// Editor runs operations against a loaded gacha database. Reports go to out;
// per-item diagnostics and rate warnings go to the logger.
type Editor struct {
	store Store
	db    *gacha.Database
	out   io.Writer
	log   *log.Logger
	op    Operation
}

// New creates an editor over store. A nil logger logs to out.
func New(store Store, out io.Writer, logger *log.Logger) *Editor {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = config.NewLogger(out, "")
	}
	return &Editor{
		store: store,
		db:    store.DB(),
		out:   out,
		log:   logger,
	}
}

// Execute runs one operation. Mutating operations save the database at most
// once, after all their changes; read-only operations never save.
func (e *Editor) Execute(op Operation) error {
	e.op = op
	e.printf("Invoking operation '%s'...\n", op.Name())

	var err error
	switch op := op.(type) {
	case ListTables:
		err = e.listTables()
	case AddItem:
		err = e.addItem(op)
	case FindItem:
		err = e.findItem(op)
	case DeleteItem:
		err = e.deleteItem(op)
	case AddItemSet:
		err = e.addItemSet(op)
	case AddPool:
		err = e.addPool(op)
	case RemovePool:
		err = e.removePool(op)
	case AddPoolItem:
		err = e.addPoolItem(op)
	case RemovePoolItem:
		err = e.removePoolItem(op)
	case ReplacePoolItem:
		err = e.replacePoolItem(op)
	case ShowPool:
		err = e.showPool(op)
	case TogglePool:
		err = e.togglePool(op)
	case ClonePool:
		err = e.clonePool(op)
	default:
		err = &UnknownOperationError{Name: op.Name()}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op.Name(), err)
	}

	e.printf("Operation '%s' finished.\n", op.Name())
	return nil
}

// Run parses the command line, loads the configured database and executes the
// requested operation. An unknown operation is reported on out and is not an error.
func Run(args []string, cfg config.Editor, out io.Writer, logger *log.Logger) error {
	if logger == nil {
		logger = config.NewLogger(out, cfg.LogLevel)
	}
	flags, positional, err := ParseArgs(args)
	if err != nil {
		return err
	}

	op, err := Parse(flags, positional)
	if IsUnknownOperation(err) {
		_, err = fmt.Fprintln(out, err)
		return err
	}
	if err != nil {
		return err
	}

	path := cfg.DatabasePath
	if flags.Database != "" {
		path = flags.Database
	}
	store, err := gacha.Open(path)
	if err != nil {
		return fmt.Errorf("load database: %w", err)
	}
	logger.Debug("database loaded", "path", path, "tables", len(store.DB().TableNames()))

	return New(store, out, logger).Execute(op)
}

func (e *Editor) save() error {
	if e.op != nil && !e.op.mutates() {
		return ErrReadOnly
	}
	if err := e.store.Save(); err != nil {
		return fmt.Errorf("save database: %w", err)
	}
	e.printf("The database has been saved successfully.\n")
	return nil
}

func (e *Editor) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

func (e *Editor) listTables() error {
	for _, name := range e.db.TableNames() {
		e.printf("%s\n", name)
	}
	return nil
}
