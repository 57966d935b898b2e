package primer

import (
	"sync"
	"testing"

	"github.com/lanterndb/coredb/internal/testutil"
)

func TestTrieStorePutAndGet(t *testing.T) {
	store := &TrieStore{}
	StorePut(store, "test", uint32(233))

	guard, ok := StoreGet[uint32](store, "test")
	testutil.Assert(t, ok, "expected to find the key")
	testutil.Equals(t, uint32(233), guard.Value)
}

func TestTrieStoreRemove(t *testing.T) {
	store := &TrieStore{}
	StorePut(store, "test", uint32(233))
	store.StoreRemove("test")

	_, ok := StoreGet[uint32](store, "test")
	testutil.Assert(t, !ok, "expected removed key to miss")
}

func TestTrieStoreConcurrentWriters(t *testing.T) {
	store := &TrieStore{}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			StorePut(store, "counter", uint32(n))
		}(i)
	}
	wg.Wait()

	_, ok := StoreGet[uint32](store, "counter")
	testutil.Assert(t, ok, "expected one of the concurrent writers to win")
}
