// Package cache is the normalized entity store: the last-known-good value
// for every (kind, key) pair, plus per-key subscriber callbacks fired on
// write. Freshness is the query coordinator's problem, not the store's.
package cache

import "sync"

// Kind names a cached resource family.
type Kind string

const (
	KindGuilds          Kind = "guilds"
	KindChannels        Kind = "channels"
	KindMembers         Kind = "members"
	KindStandup         Kind = "standup"
	KindManagedStandups Kind = "managed-standups"
	KindHistory         Kind = "history"
	KindDashboardStats  Kind = "dashboard-stats"
)

// Key addresses one cache entry. ID carries the query parameter the
// entry was fetched for ("" for parameterless resources).
type Key struct {
	Kind Kind
	ID   string
}

func (k Key) String() string {
	if k.ID == "" {
		return string(k.Kind)
	}
	return string(k.Kind) + ":" + k.ID
}

type subscriber func(value any)

// Store holds entries and subscribers behind one mutex. The source system
// ran on a single-threaded event loop; on real goroutines the lock is
// required.
type Store struct {
	mu      sync.Mutex
	entries map[Key]any
	subs    map[Key]map[int]subscriber
	nextSub int
}

func NewStore() *Store {
	return &Store{
		entries: make(map[Key]any),
		subs:    make(map[Key]map[int]subscriber),
	}
}

// Get returns the cached value for key and whether one exists.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

// Put overwrites the entry unconditionally (last writer wins, no merge)
// and notifies every subscriber registered for key.
func (s *Store) Put(key Key, value any) {
	s.mu.Lock()
	s.entries[key] = value
	notify := make([]subscriber, 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(value)
	}
}

// Delete drops the entry so the next subscription fetches fresh.
// Subscribers are not notified; absence is not a new value.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Subscribe registers fn to run after every Put on key and returns a
// handle for Unsubscribe.
func (s *Store) Subscribe(key Key, fn func(value any)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]subscriber)
	}
	s.subs[key][s.nextSub] = fn
	return s.nextSub
}

// Unsubscribe cancels a Subscribe handle. Unknown handles are ignored.
func (s *Store) Unsubscribe(key Key, handle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subs, ok := s.subs[key]; ok {
		delete(subs, handle)
		if len(subs) == 0 {
			delete(s.subs, key)
		}
	}
}

// Watchers reports how many subscribers key currently has.
func (s *Store) Watchers(key Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[key])
}
