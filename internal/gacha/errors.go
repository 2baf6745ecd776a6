package gacha

import "errors"

// ErrMalformedDatabase indicates that the database document cannot be used as loaded.
var ErrMalformedDatabase = errors.New("malformed gacha database")
