// Package models defines the household domain records shared by the local
// stores and the remote table adapters.
package models

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// NewID returns a client-generated UUID-v4 string. When the secure random
// source is unavailable it falls back to a manually constructed identifier of
// the same shape, so rows stay upsertable by primary key either way.
func NewID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fallbackID()
}

func fallbackID() string {
	const hexdigits = "0123456789abcdef"
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, 36)
	for i := range b {
		switch i {
		case 8, 13, 18, 23:
			b[i] = '-'
		case 14:
			// version nibble
			b[i] = '4'
		case 19:
			// variant nibble: 8, 9, a or b
			b[i] = hexdigits[8+r.Intn(4)]
		default:
			b[i] = hexdigits[r.Intn(16)]
		}
	}
	return string(b)
}
