// ABOUTME: Record identifier generation
// ABOUTME: Random UUIDs by default, monotonic ULIDs when sortable ids are wanted
package crm

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type IDGenerator func() string

func UUIDGenerator() IDGenerator {
	return uuid.NewString
}

// ULIDGenerator returns lexically sortable ids, monotonic within a millisecond.
func ULIDGenerator() IDGenerator {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	}
}

// NewIDGenerator maps a configured scheme name to a generator.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", "uuid":
		return UUIDGenerator(), nil
	case "ulid":
		return ULIDGenerator(), nil
	}
	return nil, fmt.Errorf("unknown id scheme %q (expected uuid or ulid)", scheme)
}
