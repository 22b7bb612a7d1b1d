package auction

import "sync"

// lockKeeper hands out one mutex per auction id. Bid placement, withdrawal
// and closing for the same auction serialize on it; operations on different
// auctions never contend.
type lockKeeper struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockKeeper() *lockKeeper {
	return &lockKeeper{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for the given auction id and returns the unlock
// function. Mutexes live for the process lifetime; the map is bounded by the
// number of distinct auctions touched.
func (k *lockKeeper) acquire(auctionID string) func() {
	k.mu.Lock()
	l, ok := k.locks[auctionID]
	if !ok {
		l = &sync.Mutex{}
		k.locks[auctionID] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
