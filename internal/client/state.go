package client

import (
	"sync"
	"time"
)

const DefaultDebounce = 500 * time.Millisecond

// Snapshot is the UI state at one point in time.
type Snapshot struct {
	// SearchInput is what the user typed; SearchQuery is the debounced value sent to the API.
	SearchInput        string
	SearchQuery        string
	ShowFavouritesOnly bool
	// SelectedContactID is 0 when no contact is selected.
	SelectedContactID int
	Page              int
}

// QueryKey identifies the list request a snapshot describes.
type QueryKey struct {
	Search        string
	FavouriteOnly bool
	Page          int
}

func (s Snapshot) QueryKey() QueryKey {
	return QueryKey{Search: s.SearchQuery, FavouriteOnly: s.ShowFavouritesOnly, Page: s.Page}
}

// State holds the client-side UI state: search text, the favourites-only
// toggle, the selected contact and the current page. Changing a filter
// resets the page to 1. Subscribers are called after every effective change.
type State struct {
	Debounce time.Duration

	mu        sync.Mutex
	snap      Snapshot
	timer     *time.Timer
	listeners map[int]func(Snapshot)
	nextID    int
}

func NewState() *State {
	return &State{
		Debounce:  DefaultDebounce,
		snap:      Snapshot{Page: 1},
		listeners: map[int]func(Snapshot){},
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn and returns a function that removes it.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners == nil {
		s.listeners = map[int]func(Snapshot){}
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// SetSearchQuery records the typed text and commits it as the search query
// once no further call arrives for Debounce.
func (s *State) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.SearchInput = q
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.Debounce <= 0 {
		s.timer = nil
		s.commitSearchLocked()
		return
	}
	s.timer = time.AfterFunc(s.Debounce, s.FlushSearch)
}

// FlushSearch commits pending search text immediately.
func (s *State) FlushSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.commitSearchLocked()
}

func (s *State) commitSearchLocked() {
	if s.snap.SearchQuery == s.snap.SearchInput {
		return
	}
	s.snap.SearchQuery = s.snap.SearchInput
	s.snap.Page = 1
	s.notifyLocked()
}

func (s *State) ToggleShowFavouritesOnly() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.ShowFavouritesOnly = !s.snap.ShowFavouritesOnly
	s.snap.Page = 1
	s.notifyLocked()
}

// SetSelectedContactID selects id; 0 clears the selection.
func (s *State) SetSelectedContactID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.SelectedContactID == id {
		return
	}
	s.snap.SelectedContactID = id
	s.notifyLocked()
}

// SetPage moves to page p; values below 1 select page 1.
func (s *State) SetPage(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = max(p, 1)
	if s.snap.Page == p {
		return
	}
	s.snap.Page = p
	s.notifyLocked()
}

// Close stops a pending debounce.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// notifyLocked calls listeners on their own goroutines so they may read or
// change the state without deadlocking.
func (s *State) notifyLocked() {
	snap := s.snap
	for _, fn := range s.listeners {
		go fn(snap)
	}
}
