package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Backend.Read when a collection key has never
// been written. The store treats it as an empty collection.
var ErrNotFound = errors.New("collection not found")

// ErrUnknownProvider indicates an unrecognized storage provider name.
func ErrUnknownProvider(provider string) error {
	return fmt.Errorf("unknown storage provider: %q (expected file, sqlite or memory)", provider)
}
