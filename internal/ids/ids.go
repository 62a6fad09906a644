// Package ids issues the identifiers stamped on users and inspections.
// ULIDs embed their creation instant, so id order matches creation order
// and the stores never need a separate sequence.
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu  sync.Mutex
	src = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns the next identifier. The monotonic source guarantees strict
// ordering even for ids minted within the same millisecond.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), src).String()
}
