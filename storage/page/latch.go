package page

import deadlock "github.com/sasha-s/go-deadlock"

// latch is a page-level reader/writer lock, distinct from any
// transaction-level lock and held only for the duration of a single page
// access. It is backed by go-deadlock instead of sync.RWMutex so that a
// latch-crabbing bug in the B+ tree surfaces as a detected deadlock instead
// of a silent hang.
type latch struct {
	mu deadlock.RWMutex
}

func (l *latch) RLock()   { l.mu.RLock() }
func (l *latch) RUnlock() { l.mu.RUnlock() }
func (l *latch) WLock()   { l.mu.Lock() }
func (l *latch) WUnlock() { l.mu.Unlock() }
