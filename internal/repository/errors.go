package repository

import "errors"

// ErrNotFound is returned by writes that matched no row. Lookups return
// nil, nil instead.
var ErrNotFound = errors.New("record not found")
