// Package idgen is the single source of record identifiers for every panel
// and for timer history entries.
//
// Identifiers are random (version 4) UUIDs rendered in their canonical
// 36-character form. Two calls never return the same value in practice,
// including calls made within the same clock tick.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call.
type Generator func() string

// UUID is the production generator.
func UUID() string {
	return uuid.NewString()
}

// Sequence returns a deterministic generator producing prefix-1, prefix-2, ...
// It is safe for concurrent use.
func Sequence(prefix string) Generator {
	var n atomic.Uint64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}
