// Package session keeps per-conversation state: the rolling message log a
// composer draws history from, plus whatever scratch values handlers record
// between turns. Sessions live in an expiring in-memory cache and vanish
// after a period of inactivity.
package session

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/hupe1980/shopagent/core"
)

// Session is one conversation's state. Access it only through Store.With so
// turns on the same session never interleave.
type Session struct {
	ID        string
	Messages  []core.Message
	Values    map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time

	maxHistory int

	// flight serializes turns on this conversation. It lives on the
	// session so eviction releases it together with the state it guards.
	flight sync.Mutex
}

// Append records a message and trims the log to twice the history budget,
// discarding the oldest entries first.
func (s *Session) Append(msg core.Message) {
	s.Messages = append(s.Messages, msg)
	if limit := 2 * s.maxHistory; len(s.Messages) > limit {
		s.Messages = s.Messages[len(s.Messages)-limit:]
	}
	s.UpdatedAt = time.Now()
}

// Recent returns the last n messages in chronological order. The returned
// slice is a copy.
func (s *Session) Recent(n int) []core.Message {
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	if n > len(s.Messages) {
		n = len(s.Messages)
	}
	out := make([]core.Message, n)
	copy(out, s.Messages[len(s.Messages)-n:])
	return out
}

// Options configure a Store.
type Options struct {
	MaxHistory int
	TTL        time.Duration
	Sweep      time.Duration
}

// Store holds sessions keyed by conversation ID. Idle sessions expire after
// the configured TTL. Each session carries a flight mutex so concurrent
// requests against the same conversation serialize.
type Store struct {
	cache *gocache.Cache
	opts  Options

	// mu makes the check-and-create in GetOrCreate atomic, so concurrent
	// first turns on the same id always land on one Session.
	mu sync.Mutex
}

// NewStore creates a session store.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{
		MaxHistory: 10,
		TTL:        30 * time.Minute,
		Sweep:      10 * time.Minute,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Store{
		cache: gocache.New(opts.TTL, opts.Sweep),
		opts:  opts,
	}
}

// GetOrCreate returns the session for id, creating it on first use. An empty
// id allocates a fresh conversation. Check-and-create runs under the store
// lock, so concurrent callers with the same id all get the same Session.
func (s *Store) GetOrCreate(id string) *Session {
	if id == "" {
		id = core.NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(id); ok {
		sess := v.(*Session)
		s.cache.SetDefault(id, sess) // refresh TTL
		return sess
	}

	now := time.Now()
	sess := &Session{
		ID:         id,
		Values:     make(map[string]string),
		CreatedAt:  now,
		UpdatedAt:  now,
		maxHistory: s.opts.MaxHistory,
	}
	s.cache.SetDefault(id, sess)
	return sess
}

// With runs fn holding the session's flight lock, so two turns on the same
// conversation never run concurrently. Different conversations proceed in
// parallel.
func (s *Store) With(id string, fn func(sess *Session)) *Session {
	sess := s.GetOrCreate(id)

	sess.flight.Lock()
	defer sess.flight.Unlock()
	fn(sess)
	return sess
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int { return s.cache.ItemCount() }
