package bookmarks

import (
	"sync"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"go-micro.dev/v4/logger"
)

const subscriberQueueSize = 64

// Change notifies that bookmark flag of the movie has been changed
type Change struct {
	MovieID    model.ID `json:"movie_id"`
	Bookmarked bool     `json:"bookmarked"`
}

// statusCache is a single bookmark flag shared by all views of the movie
// Every Set and Invalidate advances the epoch; a read-through Put is rejected when the flag
// was changed after the store read began.
type statusCache struct {
	mu      sync.RWMutex
	status  map[model.ID]bool
	epoch   uint64
	changed map[model.ID]uint64

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan Change
}

func newStatusCache() *statusCache {
	return &statusCache{
		status:  make(map[model.ID]bool),
		changed: make(map[model.ID]uint64),
		subs:    make(map[int]chan Change),
	}
}

func (c *statusCache) Get(id model.ID) (bookmarked bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bookmarked, ok = c.status[id]
	return
}

// Epoch must be taken before reading the store, the result is passed to Put
func (c *statusCache) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

// Put stores the flag read from the store without notification.
// Returns false when the flag has been changed since the epoch.
func (c *statusCache) Put(id model.ID, bookmarked bool, since uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.changed[id] > since {
		return false
	}
	c.status[id] = bookmarked
	return true
}

// Set stores the flag and notifies subscribers
func (c *statusCache) Set(id model.ID, bookmarked bool) {
	c.mu.Lock()
	c.touch(id)
	c.status[id] = bookmarked
	c.mu.Unlock()

	c.publish(Change{MovieID: id, Bookmarked: bookmarked})
}

func (c *statusCache) Invalidate(id model.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.touch(id)
	delete(c.status, id)
}

// touch must be called with the lock held
func (c *statusCache) touch(id model.ID) {
	c.epoch++
	c.changed[id] = c.epoch
}

func (c *statusCache) Subscribe() (<-chan Change, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan Change, subscriberQueueSize)
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subMu.Lock()
			defer c.subMu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (c *statusCache) publish(change Change) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for id, ch := range c.subs {
		select {
		case ch <- change:
		default:
			logger.Warnf("Bookmark change of %s dropped for subscriber %d", change.MovieID, id)
		}
	}
}
