// Package idx generates lexicographically sortable identifiers for stored
// entities (lists, products, price observations).
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	globalOnce sync.Once
	global     *generator
)

// generator hands out ULIDs from a monotonic entropy source so that ids
// created within the same millisecond still sort in creation order.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) newAt(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

func initGlobal() {
	global = &generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a new ULID string for the current UTC time.
func New() string {
	return NewAt(time.Now().UTC())
}

// NewAt returns a new ULID string for the given time.
func NewAt(t time.Time) string {
	globalOnce.Do(initGlobal)
	return global.newAt(t)
}
