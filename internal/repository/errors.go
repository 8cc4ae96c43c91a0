package repository

import "errors"

// This file defines custom errors specific to the repository layer.
// This allows the repository to communicate outcomes in a storage-agnostic way.

// ErrNotFound is returned when no record exists for the requested name.
//
// It abstracts away the backend's own "missing" signal (`sql.ErrNoRows`,
// `redis.Nil`) so the credential service never depends on a driver.
var ErrNotFound = errors.New("repository: not found")
