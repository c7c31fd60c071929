// Package session keeps the client's authentication state: the bearer
// token and the profile of the signed-in user. The state is held in
// memory and can be observed through subscriptions, so interactive
// surfaces refresh when the user logs in or out.
package session

import "sync"

// User is the profile snapshot of the signed-in user.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Snapshot is an immutable view of the session state.
// Token is empty and User is nil when nobody is signed in.
type Snapshot struct {
	Token string
	User  *User
}

// LoggedIn reports whether the snapshot carries a usable token.
func (s Snapshot) LoggedIn() bool {
	return s.Token != ""
}

// Listener receives the new snapshot after every state change.
type Listener func(Snapshot)

// Store is a concurrency-safe holder of the current session.
// The zero value is ready to use.
type Store struct {
	mu        sync.Mutex
	token     string
	user      *User
	nextID    int
	listeners map[int]Listener
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Get returns the current snapshot.
func (s *Store) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Set stores the token and user of a fresh login and notifies subscribers.
func (s *Store) Set(token string, user *User) {
	s.mu.Lock()
	s.token = token
	if user != nil {
		cp := *user
		s.user = &cp
	} else {
		s.user = nil
	}
	snap := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// Clear wipes the session and notifies subscribers.
// Logging out is purely local: the token is discarded, not revoked.
func (s *Store) Clear() {
	s.Set("", nil)
}

// Subscribe registers a listener and returns a function that removes it.
// The listener is not called with the current state on registration.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Token: s.token}
	if s.user != nil {
		cp := *s.user
		snap.User = &cp
	}
	return snap
}

func (s *Store) listenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}
