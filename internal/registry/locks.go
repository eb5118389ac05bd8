package registry

import (
	"context"
	"sync"
	"time"

	"server/internal/domain"
)

// giftLocks serializes contributions per gift. Each gift gets a one-slot
// semaphore; acquisition is bounded, so a contender that cannot enter within
// the timeout fails with ErrBusy instead of queuing without limit.
// Different gifts never contend with each other.
//
// Slots are reference-counted and dropped once the last holder or waiter
// leaves, so the map stays proportional to in-flight operations rather than
// to every gift ever touched.
type giftLocks struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func newGiftLocks() *giftLocks {
	return &giftLocks{slots: make(map[string]*lockSlot)}
}

// acquire returns a release func, or domain.ErrBusy when the slot stays
// occupied past the timeout or the caller's context ends first.
func (g *giftLocks) acquire(ctx context.Context, giftID string, timeout time.Duration) (func(), error) {
	g.mu.Lock()
	slot, ok := g.slots[giftID]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		g.slots[giftID] = slot
	}
	slot.refs++
	g.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case slot.ch <- struct{}{}:
		return func() {
			<-slot.ch
			g.put(giftID, slot)
		}, nil
	case <-ctx.Done():
		g.put(giftID, slot)
		return nil, domain.ErrBusy
	case <-timer.C:
		g.put(giftID, slot)
		return nil, domain.ErrBusy
	}
}

// put drops one reference and removes the slot once nobody holds or waits on
// it. A waiter still selecting on the old channel keeps the slot alive, so a
// gift can never end up with two live semaphores.
func (g *giftLocks) put(giftID string, slot *lockSlot) {
	g.mu.Lock()
	slot.refs--
	if slot.refs == 0 {
		delete(g.slots, giftID)
	}
	g.mu.Unlock()
}

// size reports how many gifts currently have a live slot.
func (g *giftLocks) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.slots)
}
