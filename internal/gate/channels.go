package gate

import "sync"

// ChannelSet is the set of channels with AI replies enabled. It is safe for
// concurrent use.
type ChannelSet struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

// NewChannelSet returns an empty set.
func NewChannelSet() *ChannelSet {
	return &ChannelSet{ids: make(map[int64]struct{})}
}

// Add inserts id and reports whether it was absent before.
func (s *ChannelSet) Add(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether it was present.
func (s *ChannelSet) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return false
	}
	delete(s.ids, id)
	return true
}

// Contains reports whether id is enabled.
func (s *ChannelSet) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of enabled channels.
func (s *ChannelSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
