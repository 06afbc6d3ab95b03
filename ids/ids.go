// Package ids generates the temporary identifiers attached to new workflow
// blocks and their config objects.
package ids

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces "<prefix>_<time>_<random>" identifiers.
type Generator interface {
	NewID(prefix string) string
}

// ULIDGenerator draws the random component from monotonic ULID entropy, so
// ids minted in the same millisecond still differ and sort in order.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewULIDGenerator returns a generator safe for concurrent use.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

func (g *ULIDGenerator) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := g.now()
	id := ulid.MustNew(ulid.Timestamp(t), g.entropy)
	// the first 10 characters encode the timestamp, already in the id
	random := strings.ToLower(id.String()[10:])
	return fmt.Sprintf("%s_%d_%s", prefix, t.UnixMilli(), random)
}

// Sequence yields predictable ids ("<prefix>_<n>") for tests.
type Sequence struct {
	mu sync.Mutex
	n  int
}

func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s_%d", prefix, s.n)
}
