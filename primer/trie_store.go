// The root lock is held only long enough to copy the root Trie value,
// never across a lookup or a Put/Remove computation, so readers never
// block behind a writer doing trie surgery.
package primer

import (
	deadlock "github.com/sasha-s/go-deadlock"
)

// ValueGuard pins a Trie snapshot alongside a value looked up from it, so
// the snapshot backing the value stays reachable for as long as the
// caller holds the guard. Go's GC makes this unnecessary for memory
// safety, but the type still documents which Trie a value came from.
type ValueGuard[T any] struct {
	trie  Trie
	Value T
}

// TrieStore wraps a single mutable root Trie pointer with a lock
// protecting the pointer swap, plus a second mutex serializing writers so
// a Put never races another Put's read-modify-write of the root.
type TrieStore struct {
	rootLock deadlock.Mutex
	root     Trie

	writeLock deadlock.Mutex
}

// StoreGet looks up key and, if present with type T, returns a ValueGuard
// wrapping it. ok is false if the key is absent or its value isn't a T.
func StoreGet[T any](s *TrieStore, key string) (guard ValueGuard[T], ok bool) {
	s.rootLock.Lock()
	trie := s.root
	s.rootLock.Unlock()

	val, found := Get[T](trie, key)
	if !found {
		return ValueGuard[T]{}, false
	}
	return ValueGuard[T]{trie: trie, Value: val}, true
}

// StorePut installs key -> value, serialized against every other writer.
func StorePut[T any](s *TrieStore, key string, value T) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	s.rootLock.Lock()
	trie := s.root
	s.rootLock.Unlock()

	newTrie := Put[T](trie, key, value)

	s.rootLock.Lock()
	s.root = newTrie
	s.rootLock.Unlock()
}

// StoreRemove deletes key, serialized against every other writer.
func (s *TrieStore) StoreRemove(key string) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	s.rootLock.Lock()
	trie := s.root
	s.rootLock.Unlock()

	newTrie := trie.Remove(key)

	s.rootLock.Lock()
	s.root = newTrie
	s.rootLock.Unlock()
}
