package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RandomPresence flips a coin per thread. It stands in for a real presence
// signal and carries no contract beyond returning a bool.
type RandomPresence struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomPresence(seed int64) *RandomPresence {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPresence{rnd: rand.New(rand.NewSource(seed))}
}

func (p *RandomPresence) Online(uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(2) == 1
}
