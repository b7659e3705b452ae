// Package idgen generates record ids.
package idgen

import "github.com/google/uuid"

// New returns a time-ordered id (UUIDv7: millisecond timestamp plus random
// bits), so ids sort in creation order. Collisions are not retried.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
