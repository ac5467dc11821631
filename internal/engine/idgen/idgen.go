// Package idgen mints 128-bit, lexicographically sortable ids for orders
// and trades. Using ULIDs (as the teacher's go.mod already vendors
// via github.com/oklog/ulid) rather than random UUIDs means an id's sort
// order agrees with its mint time, which is convenient for the "smaller
// id first" tie-break spec.md mandates for orders minted in the same
// process tick.
package idgen

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator mints unique, monotonically increasing ULIDs. It is safe for
// concurrent use, though in this engine only the single dispatcher thread
// ever calls it.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// New builds a Generator whose monotonic entropy source is backed by
// crypto/rand (a nil reader panics the first time MonotonicRead falls back
// to it within a millisecond). Each id's timestamp is read from the wall
// clock when Next is called.
func New() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Next mints a new id.
func (g *Generator) Next() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}
