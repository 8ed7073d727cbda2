// Package store persists records. PostgresStore is the durable
// implementation; InMemory backs local runs and tests.
package store

import (
	"staffdir/pkg/platform/sentinel"
)

// ErrConstraintViolation is returned when the store rejects a batch for
// violating a schema constraint (not-null, uniqueness, value range).
var ErrConstraintViolation = sentinel.ErrConstraintViolation
